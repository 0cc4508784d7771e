/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package ticket

import (
	"casflow.io/casflow/pkg/apiserver/authentication"
)

// ServiceTicket is a single-use credential granting access to one relying
// service. It is consumed exactly once under normal protocol semantics.
type ServiceTicket struct {
	baseTicket

	TicketGrantingTicketID string                  `json:"ticketGrantingTicketId"`
	Service                *authentication.Service `json:"service"`

	// FromNewLogin marks tickets granted during the login request itself
	// rather than from an existing session.
	FromNewLogin bool `json:"fromNewLogin,omitempty"`

	// Validated flips when the ticket is consumed by a validation
	// request; a validated ticket must not validate again.
	Validated bool `json:"validated,omitempty"`
}

func (t *ServiceTicket) Prefix() string {
	return PrefixServiceTicket
}

// GrantProxyGrantingTicket delegates proxy authentication to the service
// this ticket was issued for. The new ticket is tracked on the parent
// ticket-granting ticket; the caller persists both.
func (t *ServiceTicket) GrantProxyGrantingTicket(id string, parent *TicketGrantingTicket, policy ExpirationPolicy) *ProxyGrantingTicket {
	pgt := &ProxyGrantingTicket{
		baseTicket:             newBaseTicket(id, policy),
		TicketGrantingTicketID: parent.ID(),
		ServiceTicketID:        t.TicketID,
		Service:                t.Service,
		IOU:                    NewID(PrefixProxyGrantingTicketIOU),
	}
	parent.TrackProxyGrantingTicket(pgt)
	t.Update()
	return pgt
}
