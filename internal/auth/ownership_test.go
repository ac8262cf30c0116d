// ABOUTME: Unit tests for the ownership policy
// ABOUTME: Equality for same id, rejection for different or empty ids

package auth

import "testing"

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name  string
		actor string
		owner string
		want  bool
	}{
		{"same identity", "id-a", "id-a", true},
		{"different identity", "id-a", "id-b", false},
		{"empty actor", "", "id-a", false},
		{"empty owner", "id-a", "", false},
		{"both empty", "", "", false},
		{"trimmed forms match", " id-a ", "id-a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.actor, tt.owner); got != tt.want {
				t.Errorf("Authorize(%q, %q) = %v, want %v", tt.actor, tt.owner, got, tt.want)
			}
		})
	}
}
