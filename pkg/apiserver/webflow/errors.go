/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package webflow

import (
	"errors"
	"fmt"
)

// NoSuchTransitionError indicates a resolved event id with no matching
// transition in the flow definition. This is a deployment misconfiguration
// and is never recovered into a terminal event.
type NoSuchTransitionError struct {
	EventID string
}

func (e *NoSuchTransitionError) Error() string {
	return fmt.Sprintf("no transition registered for resolved event %q", e.EventID)
}

func (e *NoSuchTransitionError) Fatal() bool {
	return true
}

// fatal marks configuration/programmer errors that must propagate instead
// of being translated into terminal events.
type fatal interface {
	Fatal() bool
}

// IsFatal reports whether err is a non-recoverable configuration error.
func IsFatal(err error) bool {
	var f fatal
	return errors.As(err, &f) && f.Fatal()
}
