package suggest

// Event is a navigation input routed to the engine. Confirmation stays a
// separate call (Engine.Confirm) because it returns the chosen suggestion.
type Event int

const (
	// EventNext moves the selection down (ArrowDown).
	EventNext Event = iota
	// EventPrev moves the selection up (ArrowUp).
	EventPrev
	// EventDismiss clears the list and hides the panel (Escape).
	EventDismiss
)

// Apply dispatches a navigation event. Unknown events are ignored.
func (e *Engine) Apply(ev Event) {
	switch ev {
	case EventNext:
		e.SelectNext()
	case EventPrev:
		e.SelectPrevious()
	case EventDismiss:
		e.Clear()
	}
}
