package types

import "errors"

// Domain errors raised by agents for business-rule violations. The
// orchestrator wraps them but preserves the chain, so boundary layers can
// distinguish "not found" from an internal failure with errors.Is.
var (
	// ErrProjectNotFound indicates the requested project does not exist or is deleted
	ErrProjectNotFound = errors.New("project not found")

	// ErrNoteNotFound indicates the requested note does not exist
	ErrNoteNotFound = errors.New("note not found")

	// ErrDocumentNotFound indicates the requested knowledge document does not exist
	ErrDocumentNotFound = errors.New("document not found")

	// ErrUserNotFound indicates the requested user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrProjectArchived indicates a mutation was attempted on an archived project
	ErrProjectArchived = errors.New("project is archived")

	// ErrInvalidPhaseTransition indicates a phase advance that skips phases,
	// moves backward, or starts from the final phase
	ErrInvalidPhaseTransition = errors.New("invalid phase transition")

	// ErrPhaseNotReady indicates the phase score has not crossed the gate threshold
	ErrPhaseNotReady = errors.New("phase is not ready to advance")
)
