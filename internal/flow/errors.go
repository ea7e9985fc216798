package flow

import (
	"errors"

	"github.com/TripodGG/aegis-discord-bot/internal/access"
)

var (
	ErrNotConfigured   = errors.New("no configuration saved yet, ask an admin to run /setup")
	ErrInvalidTarget   = errors.New("invalid target")
	ErrExpired         = errors.New("this form has expired, run the command again")
	ErrNotOwner        = errors.New("this form belongs to another member")
	ErrEmptyDetails    = errors.New("details are required")
	ErrDetailsTooLong  = errors.New("details are too long")
	ErrUnsupportedKind = errors.New("unsupported action")
)

// DeniedError reports that the invoker failed the access policy.
type DeniedError struct {
	Reason access.Reason
}

func (e *DeniedError) Error() string {
	return "denied: " + e.Reason.String()
}
