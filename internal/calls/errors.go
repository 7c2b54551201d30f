package calls

import "errors"

var (
	// ErrInvalidArgument is returned for bad caller input, before any
	// remote side effect.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotConfigured is returned when a required piece of configuration
	// (the outbound SIP trunk) is missing.
	ErrNotConfigured = errors.New("not configured")

	// ErrRecipientBusy is the expected busy/rejected outcome. The session
	// created for the call has already been torn down when this is returned.
	ErrRecipientBusy = errors.New("recipient busy")
)
