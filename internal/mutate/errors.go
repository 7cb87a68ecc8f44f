package mutate

import "errors"

// ErrSkip means the precondition for a mutation was not met (empty input,
// unchanged value, missing entity). No network call was made and the store
// was not touched; callers treat it as a silent no-op, not a failure.
var ErrSkip = errors.New("nothing to update")

// Skipped reports whether err is the silent no-op outcome.
func Skipped(err error) bool {
	return errors.Is(err, ErrSkip)
}
