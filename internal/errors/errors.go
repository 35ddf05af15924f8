package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/keyring"
	"github.com/julianstephens/streakline/internal/logger"
	"github.com/julianstephens/streakline/internal/migration"
	"github.com/julianstephens/streakline/internal/storage"
)

// Exit codes. Setup problems the user can fix with another command get
// their own code so scripts can tell them apart from runtime failures.
const (
	ExitFailure = 1
	ExitSetup   = 2
)

type hint struct {
	target error
	text   string
}

var hints = []hint{
	{storage.ErrNotInitialized, "create the database with 'streakline init' or point --config at an existing one"},
	{migration.ErrSchemaBehind, "run 'streakline migrate' to apply pending schema changes"},
	{migration.ErrSchemaTooNew, "install a newer streakline release"},
	{storage.ErrEmbeddedCredentials, "save the connection string with 'streakline keyring set' and use --config postgres"},
	{storage.ErrInvalidConnectionString, "expected postgres://user@host/db or a host=... key/value string"},
	{keyring.ErrNotFound, "run 'streakline keyring set <conn>' or export " + constants.ConnectionEnvVar},
	{keyring.ErrKeyringUnavailable, "export " + constants.ConnectionEnvVar + " instead of using the OS keyring"},
}

// Hint returns follow-up advice for a known failure anywhere in err's chain.
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.text
		}
	}
	return ""
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if Hint(err) != "" {
		return ExitSetup
	}
	return ExitFailure
}

// Format renders err for the terminal, with a hint line when one applies.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if h := Hint(err); h != "" {
		msg += "\nHint: " + h
	}
	return msg
}

func Fatal(err error) {
	if err == nil {
		return
	}
	code := ExitCode(err)
	logger.Error("Command failed", "error", err, "exit_code", code)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(code)
}
