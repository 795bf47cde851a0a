package telemetry

import verrors "github.com/vango-dev/vlite/internal/errors"

// errorCode returns a low-cardinality label for err.
func errorCode(err error) string {
	if e, ok := verrors.As(err); ok && e.Code != "" {
		return e.Code
	}
	return "unknown"
}
