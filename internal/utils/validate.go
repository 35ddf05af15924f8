package utils

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxHabitNameLength caps habit names in runes.
const MaxHabitNameLength = 64

// ValidateHabitName rejects blank and overlong habit names.
func ValidateHabitName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("habit name cannot be empty")
	}
	if n := utf8.RuneCountInString(name); n > MaxHabitNameLength {
		return fmt.Errorf("habit name is %d characters, maximum is %d", n, MaxHabitNameLength)
	}
	return nil
}
