package account

import "errors"

// Domain errors. Operations wrap these with fmt.Errorf("%w: detail", ...),
// so callers branch with errors.Is. Any error that wraps none of them is an
// infrastructure failure and must propagate to the transport boundary as-is.
var (
	ErrValidation     = errors.New("account: invalid input")
	ErrConflict       = errors.New("account: conflict")
	ErrAuth           = errors.New("account: authentication failed")
	ErrSessionExpired = errors.New("account: session expired")
	ErrNotFound       = errors.New("account: not found")
)
