/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package ticket

import (
	"time"
)

// Ticket type prefixes; the id of every ticket starts with its prefix.
// Consumers treat the prefix as a type tag and assume no further structure.
const (
	PrefixTicketGrantingTicket   = "TGT"
	PrefixServiceTicket          = "ST"
	PrefixProxyGrantingTicket    = "PGT"
	PrefixProxyGrantingTicketIOU = "PGTIOU"
)

// Ticket is a security ticket representing some protocol state: a single
// sign-on session, a one-time service grant or a proxy delegation.
type Ticket interface {
	ID() string
	Prefix() string
	CreationTime() time.Time
	CountOfUses() int
	LastTimeUsed() time.Time
	ExpirationPolicy() ExpirationPolicy

	// IsExpired is a pure function of the expiration policy and the
	// ticket's usage/time state.
	IsExpired() bool

	// MarkExpired forces expiration regardless of policy.
	MarkExpired()

	// Update records one use of the ticket.
	Update()
}

type baseTicket struct {
	TicketID string           `json:"id"`
	Created  time.Time        `json:"creationTime"`
	Uses     int              `json:"countOfUses"`
	LastUsed time.Time        `json:"lastTimeUsed"`
	Expired  bool             `json:"expired,omitempty"`
	Policy   ExpirationPolicy `json:"expirationPolicy"`
}

func newBaseTicket(id string, policy ExpirationPolicy) baseTicket {
	now := time.Now()
	return baseTicket{
		TicketID: id,
		Created:  now,
		LastUsed: now,
		Policy:   policy,
	}
}

func (t *baseTicket) ID() string {
	return t.TicketID
}

func (t *baseTicket) CreationTime() time.Time {
	return t.Created
}

func (t *baseTicket) CountOfUses() int {
	return t.Uses
}

func (t *baseTicket) LastTimeUsed() time.Time {
	return t.LastUsed
}

func (t *baseTicket) ExpirationPolicy() ExpirationPolicy {
	return t.Policy
}

func (t *baseTicket) IsExpired() bool {
	return t.Expired || t.Policy.IsExpired(t)
}

func (t *baseTicket) MarkExpired() {
	t.Expired = true
}

func (t *baseTicket) Update() {
	t.Uses++
	t.LastUsed = time.Now()
}
