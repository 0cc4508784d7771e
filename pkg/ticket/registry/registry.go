/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package registry

import (
	"errors"
	"fmt"
	"math"

	"casflow.io/casflow/pkg/ticket"
)

// CountUnknown is reported by the count operations when the backing store
// cannot enumerate tickets. It is a sentinel, not an error condition.
const CountUnknown int64 = math.MinInt64

// ErrNotIterable is returned by enumeration operations on stores that
// cannot scan their key space.
var ErrNotIterable = errors.New("ticket registry backend does not support enumeration")

// Registry manages the lifecycle and storage of tickets. Implementations
// must be safe for concurrent use by request threads and the cleaner.
type Registry interface {
	// AddTicket inserts or overwrites the ticket under its id.
	AddTicket(t ticket.Ticket) error

	// GetTicket returns the ticket, or nil if absent. A present but
	// expired ticket is deleted as a side effect and nil is returned.
	GetTicket(id string) (ticket.Ticket, error)

	// UpdateTicket re-persists mutated ticket state. Implementations
	// must make this effective even when the store holds tickets by
	// reference.
	UpdateTicket(t ticket.Ticket) error

	// DeleteTicket deletes the ticket and cascades over everything it
	// owns, returning the total number of tickets removed.
	DeleteTicket(id string) (int, error)

	// DeleteAll clears the store and returns its prior size.
	DeleteAll() (int, error)

	// GetTickets returns a decoded snapshot of every stored ticket.
	// Returns ErrNotIterable when the backend cannot enumerate.
	GetTickets() ([]ticket.Ticket, error)

	// SessionCount counts ticket-granting tickets, CountUnknown if the
	// backend cannot enumerate.
	SessionCount() int64

	// ServiceTicketCount counts service tickets, CountUnknown if the
	// backend cannot enumerate.
	ServiceTicketCount() int64

	// CountSessionsFor counts single sign-on sessions owned by the given
	// principal, CountUnknown if the backend cannot enumerate.
	CountSessionsFor(principalID string) int64

	// IsIterable reports whether the backing store supports enumeration.
	IsIterable() bool
}

// WrongTicketTypeError indicates a typed lookup found a ticket of an
// unexpected concrete type. This is programmer error and is intentionally
// loud: it is never translated into a protocol event.
type WrongTicketTypeError struct {
	TicketID string
	Want     string
	Got      string
}

func (e *WrongTicketTypeError) Error() string {
	return fmt.Sprintf("ticket %s is a %s, not a %s", e.TicketID, e.Got, e.Want)
}

func (e *WrongTicketTypeError) Fatal() bool {
	return true
}

// GetTicketsWith returns the stored tickets matching the predicate; a nil
// predicate matches everything. Returns ErrNotIterable when the backend
// cannot enumerate.
func GetTicketsWith(r Registry, predicate func(ticket.Ticket) bool) ([]ticket.Ticket, error) {
	tickets, err := r.GetTickets()
	if err != nil {
		return nil, err
	}
	matched := make([]ticket.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if predicate == nil || predicate(t) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// GetTicket retrieves a ticket and asserts its concrete type.
func GetTicket[T ticket.Ticket](r Registry, id string) (T, error) {
	var zero T
	t, err := r.GetTicket(id)
	if err != nil || t == nil {
		return zero, err
	}
	typed, ok := t.(T)
	if !ok {
		return zero, &WrongTicketTypeError{
			TicketID: id,
			Want:     fmt.Sprintf("%T", zero),
			Got:      fmt.Sprintf("%T", t),
		}
	}
	return typed, nil
}
