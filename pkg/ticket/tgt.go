/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package ticket

import (
	"casflow.io/casflow/pkg/apiserver/authentication"
)

// TicketGrantingTicket represents an authenticated single sign-on session.
// It owns every service ticket and proxy-granting ticket it issued;
// deleting it must cascade to all of them.
type TicketGrantingTicket struct {
	baseTicket

	Authentication *authentication.Authentication `json:"authentication"`

	// Services tracks granted service tickets, service id to ticket id.
	Services map[string]string `json:"services,omitempty"`

	// ProxyGrantingTickets tracks delegated child tickets, ticket id to
	// the service the delegation was granted for.
	ProxyGrantingTickets map[string]string `json:"proxyGrantingTickets,omitempty"`

	// ParentID chains proxy-granting tickets back to the session root;
	// empty for a root ticket.
	ParentID string `json:"parentId,omitempty"`
}

func NewTicketGrantingTicket(id string, authn *authentication.Authentication, policy ExpirationPolicy) *TicketGrantingTicket {
	return &TicketGrantingTicket{
		baseTicket:           newBaseTicket(id, policy),
		Authentication:       authn,
		Services:             map[string]string{},
		ProxyGrantingTickets: map[string]string{},
	}
}

func (t *TicketGrantingTicket) Prefix() string {
	return PrefixTicketGrantingTicket
}

// IsRoot reports whether this ticket heads a proxy chain.
func (t *TicketGrantingTicket) IsRoot() bool {
	return t.ParentID == ""
}

// GrantServiceTicket issues a service ticket for the given service and
// tracks it. The caller persists both tickets afterwards.
func (t *TicketGrantingTicket) GrantServiceTicket(id string, service *authentication.Service, policy ExpirationPolicy, fromNewLogin bool) *ServiceTicket {
	st := &ServiceTicket{
		baseTicket:             newBaseTicket(id, policy),
		TicketGrantingTicketID: t.TicketID,
		Service:                service,
		FromNewLogin:           fromNewLogin,
	}
	if t.Services == nil {
		t.Services = map[string]string{}
	}
	t.Services[service.ID] = id
	t.Update()
	return st
}

// TrackProxyGrantingTicket registers a delegated child ticket.
func (t *TicketGrantingTicket) TrackProxyGrantingTicket(pgt *ProxyGrantingTicket) {
	if t.ProxyGrantingTickets == nil {
		t.ProxyGrantingTickets = map[string]string{}
	}
	serviceID := ""
	if pgt.Service != nil {
		serviceID = pgt.Service.ID
	}
	t.ProxyGrantingTickets[pgt.TicketID] = serviceID
}

// UntrackProxyGrantingTicket removes the parent-side reference of a
// deleted child ticket.
func (t *TicketGrantingTicket) UntrackProxyGrantingTicket(id string) {
	delete(t.ProxyGrantingTickets, id)
}

// DescendantIDs returns the ids of every ticket this one directly owns.
func (t *TicketGrantingTicket) DescendantIDs() []string {
	ids := make([]string, 0, len(t.Services)+len(t.ProxyGrantingTickets))
	for _, stID := range t.Services {
		ids = append(ids, stID)
	}
	for pgtID := range t.ProxyGrantingTickets {
		ids = append(ids, pgtID)
	}
	return ids
}
