package staging

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFoundOrExpired collapses "never existed", "wrong key" and
// "expired" into one externally indistinguishable outcome.
var ErrNotFoundOrExpired = errors.New("no pending mutation or it has expired")

// ValidationErrors carries field-level validation failures from an init
// call. The zero value is usable; a nil map means no failures.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(v))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationErrors unwraps err into ValidationErrors if it is one.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
