package validation

import (
	"regexp"
	"strings"

	"taskhub/internal/models"
)

// SlugPattern defines the valid workspace slug format: lowercase
// alphanumeric and hyphens, no leading/trailing hyphen.
var SlugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// HandlePattern defines the valid user handle format.
var HandlePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateSlug checks if a workspace slug matches the allowed pattern.
func ValidateSlug(slug string) bool {
	if slug == "" || len(slug) > 64 {
		return false
	}
	return SlugPattern.MatchString(slug)
}

// ValidateHandle checks if a user handle matches the allowed pattern.
func ValidateHandle(handle string) bool {
	if handle == "" || len(handle) > 64 {
		return false
	}
	return HandlePattern.MatchString(handle)
}

// ValidateTitle checks a task or list title.
func ValidateTitle(title string) (bool, string) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return false, "Title is required"
	}
	if len(trimmed) > 200 {
		return false, "Title must be 200 characters or fewer"
	}
	return true, ""
}

// ValidStatus reports whether a task status is recognized.
func ValidStatus(status string) bool {
	switch status {
	case models.StatusTodo, models.StatusDoing, models.StatusDone:
		return true
	}
	return false
}

// ValidPriority reports whether a task priority is in range.
func ValidPriority(priority int) bool {
	return priority >= models.PriorityLow && priority <= models.PriorityUrgent
}

// ValidEventKind reports whether an activity kind is recognized for
// notification preferences. The wildcard "all" is accepted.
func ValidEventKind(kind string) bool {
	switch kind {
	case models.PrefKindAll,
		models.EventTaskCreated,
		models.EventTaskMoved,
		models.EventTaskUpdated,
		models.EventTaskCompleted,
		models.EventTaskAssigned,
		models.EventListCreated:
		return true
	}
	return false
}

// NormalizeLabels trims, lowercases, and deduplicates task labels.
func NormalizeLabels(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		normalized := strings.ToLower(strings.TrimSpace(label))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
	}
	return out
}

// EscapeLike escapes ILIKE wildcards in user-supplied search input.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// ClampLimit bounds a requested page size.
func ClampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
