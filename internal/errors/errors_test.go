package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/julianstephens/streakline/internal/keyring"
	"github.com/julianstephens/streakline/internal/migration"
	"github.com/julianstephens/streakline/internal/storage"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "plain error", err: errors.New("habit not found"), expected: "Error: habit not found"},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("failed to save: %w", errors.New("disk full")),
			expected: "Error: failed to save: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Format(tt.err); result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWithHint(t *testing.T) {
	err := fmt.Errorf("open: %w", storage.ErrNotInitialized)
	got := Format(err)
	if !strings.HasPrefix(got, "Error: open: ") {
		t.Errorf("Format() = %q, missing error line", got)
	}
	if !strings.Contains(got, "\nHint: create the database with 'streakline init'") {
		t.Errorf("Format() = %q, missing init hint", got)
	}
}

func TestHintAndExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint bool
		wantCode int
	}{
		{"nil", nil, false, 0},
		{"unknown", errors.New("boom"), false, ExitFailure},
		{"embedded credentials", fmt.Errorf("x: %w", storage.ErrEmbeddedCredentials), true, ExitSetup},
		{"schema behind", fmt.Errorf("open: %w", migration.ErrSchemaBehind), true, ExitSetup},
		{"bad conn string", storage.ErrInvalidConnectionString, true, ExitSetup},
		{"keyring empty", keyring.ErrNotFound, true, ExitSetup},
		{"keyring unavailable", fmt.Errorf("%w: dbus", keyring.ErrKeyringUnavailable), true, ExitSetup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hint(tt.err) != ""; got != tt.wantHint {
				t.Errorf("Hint() present = %v, want %v", got, tt.wantHint)
			}
			if got := ExitCode(tt.err); got != tt.wantCode {
				t.Errorf("ExitCode() = %d, want %d", got, tt.wantCode)
			}
		})
	}
}
