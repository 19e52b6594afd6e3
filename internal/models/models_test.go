package models

import "testing"

func TestWorkspaceMember_IsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected bool
	}{
		{"admin member", RoleAdmin, true},
		{"regular member", RoleMember, false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &WorkspaceMember{Role: tt.role}
			if got := m.IsAdmin(); got != tt.expected {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTask_IsDone(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		expected bool
	}{
		{"done", StatusDone, true},
		{"todo", StatusTodo, false},
		{"doing", StatusDoing, false},
		{"empty status", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{Status: tt.status}
			if got := task.IsDone(); got != tt.expected {
				t.Errorf("IsDone() = %v, want %v", got, tt.expected)
			}
		})
	}
}
