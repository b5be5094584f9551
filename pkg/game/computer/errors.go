package computer

import "github.com/pkg/errors"

var (
	// Configuration errors, raised while a terminal is being built
	ErrUnknownAction     = errors.New("unknown action kind")
	ErrUnknownFailure    = errors.New("unknown failure kind")
	ErrNegativeSecurity  = errors.New("security level must not be negative")
	ErrInvalidOption     = errors.New("invalid terminal option")
	ErrUnhandledAction   = errors.New("action kind has no handler")
	ErrMissingDependency = errors.New("missing collaborator")

	// Lookup errors
	ErrOptionNotFound = errors.New("option not found")

	// Persistence errors
	ErrParse = errors.New("malformed terminal record")

	// Policy errors
	ErrInsufficientClearance = errors.New("clearance below required security")

	// ErrSessionActive is returned by Use when the terminal already has a session
	ErrSessionActive = errors.New("terminal already in use")
)
