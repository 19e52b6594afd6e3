package validation

import (
	"reflect"
	"strings"
	"testing"

	"taskhub/internal/models"
)

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"team", true},
		{"my-team-2", true},
		{"a", true},
		{"", false},
		{"-team", false},
		{"team-", false},
		{"My-Team", false},
		{"team_one", false},
		{"team one", false},
		{strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		if got := ValidateSlug(tt.slug); got != tt.want {
			t.Errorf("ValidateSlug(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}

func TestValidateHandle(t *testing.T) {
	tests := []struct {
		handle string
		want   bool
	}{
		{"alice", true},
		{"alice_b", true},
		{"Alice-B", true},
		{"", false},
		{"alice b", false},
		{"alice@work", false},
		{strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		if got := ValidateHandle(tt.handle); got != tt.want {
			t.Errorf("ValidateHandle(%q) = %v, want %v", tt.handle, got, tt.want)
		}
	}
}

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"normal", "Fix the login flow", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"max length", strings.Repeat("a", 200), true},
		{"too long", strings.Repeat("a", 201), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := ValidateTitle(tt.title)
			if got != tt.want {
				t.Errorf("ValidateTitle(%q) = %v, want %v", tt.title, got, tt.want)
			}
			if !got && msg == "" {
				t.Error("ValidateTitle() rejected without a message")
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{models.StatusTodo, models.StatusDoing, models.StatusDone} {
		if !ValidStatus(status) {
			t.Errorf("ValidStatus(%q) = false, want true", status)
		}
	}
	if ValidStatus("archived") {
		t.Error(`ValidStatus("archived") = true, want false`)
	}
}

func TestValidPriority(t *testing.T) {
	tests := []struct {
		priority int
		want     bool
	}{
		{models.PriorityLow, true},
		{models.PriorityUrgent, true},
		{0, false},
		{5, false},
		{-1, false},
	}

	for _, tt := range tests {
		if got := ValidPriority(tt.priority); got != tt.want {
			t.Errorf("ValidPriority(%d) = %v, want %v", tt.priority, got, tt.want)
		}
	}
}

func TestValidEventKind(t *testing.T) {
	if !ValidEventKind(models.PrefKindAll) {
		t.Error(`ValidEventKind("all") = false, want true`)
	}
	if !ValidEventKind(models.EventTaskMoved) {
		t.Errorf("ValidEventKind(%q) = false, want true", models.EventTaskMoved)
	}
	if ValidEventKind("task_archived") {
		t.Error(`ValidEventKind("task_archived") = true, want false`)
	}
}

func TestNormalizeLabels(t *testing.T) {
	got := NormalizeLabels([]string{" Backend ", "backend", "URGENT", "", "  "})
	want := []string{"backend", "urgent"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeLabels() = %v, want %v", got, want)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"under_score", `under\_score`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}

	for _, tt := range tests {
		if got := EscapeLike(tt.in); got != tt.want {
			t.Errorf("EscapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		limit, fallback, max, want int
	}{
		{0, 50, 200, 50},
		{-5, 50, 200, 50},
		{10, 50, 200, 10},
		{500, 50, 200, 200},
	}

	for _, tt := range tests {
		if got := ClampLimit(tt.limit, tt.fallback, tt.max); got != tt.want {
			t.Errorf("ClampLimit(%d, %d, %d) = %d, want %d", tt.limit, tt.fallback, tt.max, got, tt.want)
		}
	}
}
