package models

import "time"

// Search lookup outcome constants
const (
	OutcomeResults = "results"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// SearchLookup is an aggregated counter of search terms by outcome, exported
// through the metrics collector.
type SearchLookup struct {
	Term       string    `json:"term"`
	Outcome    string    `json:"outcome"`
	Count      int64     `json:"count"`
	LastSeenAt time.Time `json:"last_seen_at"`
}
