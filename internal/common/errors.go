// Package common defines shared constants and sentinel errors used across
// the journal core and the serving layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Journal errors.
	ErrIncorrectPasswordOrCorrupted = errors.New("incorrect password or corrupted journal file")
	ErrInvalidIndex                 = errors.New("invalid entry index")
	ErrEntryNotFound                = errors.New("entry not found")

	// Session / auth errors.
	ErrJournalLocked = errors.New("journal is locked")
	ErrInvalidToken  = errors.New("invalid token")

	// Collaborator errors.
	ErrAuthRequired       = errors.New("authentication required: no stored credentials")
	ErrUnparsableOutput   = errors.New("could not parse JSON from model output")
	ErrProviderUnavailable = errors.New("text generation provider unavailable")
)
