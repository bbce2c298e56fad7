package dla

import "errors"

// ErrInvalidArgument is wrapped by every setter or constructor that rejects
// its input. The aggregate is left untouched when it is returned.
var ErrInvalidArgument = errors.New("invalid argument")
