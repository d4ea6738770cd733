package progress

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"local", true},
		{"guest-1a2b", true},
		{"Ana.M_2", true},
		{"", false},
		{"has space", false},
		{"slash/y", false},
		{strings.Repeat("a", MaxUserIDLen), true},
		{strings.Repeat("a", MaxUserIDLen+1), false},
	}
	for _, tt := range tests {
		err := ValidateUserID(tt.id)
		if tt.valid && err != nil {
			t.Errorf("ValidateUserID(%q) = %v, want nil", tt.id, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalidUserID) {
			t.Errorf("ValidateUserID(%q) = %v, want ErrInvalidUserID", tt.id, err)
		}
	}
}
