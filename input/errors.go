package input

import "errors"

var (
	ErrMissingAction           = errors.New("input: missing action")
	ErrInvalidRegistrationMode = errors.New("input: invalid registration mode")
	ErrRebindInProgress        = errors.New("input: rebind already in progress")
	ErrInvalidBindingIndex     = errors.New("input: invalid binding index")
)
