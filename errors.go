package chandratime

import "errors"

// Sentinel errors returned by conversion entry points. Wrap sites add the
// offending value; callers test with errors.Is.
var (
	ErrInputFormat  = errors.New("invalid input format")
	ErrOutputFormat = errors.New("invalid output format")
	ErrInputSystem  = errors.New("invalid input system")
	ErrOutputSystem = errors.New("invalid output system")
	ErrInputValue   = errors.New("invalid input value")
)
