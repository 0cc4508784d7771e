/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package ticket

import (
	"errors"
	"fmt"
)

// Error is a domain ticket failure (expired, absent, service mismatch).
// Like authentication failures, the webflow recovers it into a terminal
// authenticationFailure event.
type Error struct {
	TicketID string
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ticket %s: %s", e.TicketID, e.Message)
}

func NewInvalidTicketError(id string) *Error {
	return &Error{TicketID: id, Message: "ticket is invalid or expired"}
}

func NewError(id, format string, args ...interface{}) *Error {
	return &Error{TicketID: id, Message: fmt.Sprintf(format, args...)}
}

// IsTicketError reports whether err is (or wraps) a domain ticket failure.
func IsTicketError(err error) bool {
	var ticketErr *Error
	return errors.As(err, &ticketErr)
}
