package adaptive

import "errors"

// Sentinel errors for the adaptive package. Check with errors.Is.
var (
	ErrInvalidArgument  = errors.New("adaptive: invalid argument")
	ErrInvalidPolicy    = errors.New("adaptive: invalid policy")
	ErrAlreadyCommitted = errors.New("adaptive: draw already committed")
)
