/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package registry

import (
	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/apiserver/authentication"
	"casflow.io/casflow/pkg/ticket"
)

// Support carries the ticket-granting operations the protocol layer and
// webflow need, on top of the raw registry. It implements
// authentication.TicketRegistrySupport.
type Support struct {
	registry Registry

	// policies applied to newly granted tickets
	grantingTicketPolicy ticket.ExpirationPolicy
	serviceTicketPolicy  ticket.ExpirationPolicy
	proxyTicketPolicy    ticket.ExpirationPolicy
}

func NewSupport(r Registry, tgtPolicy, stPolicy, pgtPolicy ticket.ExpirationPolicy) *Support {
	return &Support{
		registry:             r,
		grantingTicketPolicy: tgtPolicy,
		serviceTicketPolicy:  stPolicy,
		proxyTicketPolicy:    pgtPolicy,
	}
}

func (s *Support) Registry() Registry {
	return s.registry
}

// AuthenticationFrom returns the authentication owned by the given
// ticket-granting ticket, nil if it is absent or expired.
func (s *Support) AuthenticationFrom(tgtID string) (*authentication.Authentication, error) {
	if tgtID == "" {
		return nil, nil
	}
	tgt, err := GetTicket[*ticket.TicketGrantingTicket](s.registry, tgtID)
	if err != nil || tgt == nil {
		return nil, err
	}
	return tgt.Authentication, nil
}

// GrantTicketGrantingTicket creates and persists a fresh session ticket
// for a completed authentication.
func (s *Support) GrantTicketGrantingTicket(authn *authentication.Authentication) (*ticket.TicketGrantingTicket, error) {
	tgt := ticket.NewTicketGrantingTicket(ticket.NewID(ticket.PrefixTicketGrantingTicket), authn, s.grantingTicketPolicy)
	if err := s.registry.AddTicket(tgt); err != nil {
		return nil, err
	}
	klog.V(2).Infof("granted ticket-granting ticket %s to principal %s", tgt.ID(), authn.Principal.ID)
	return tgt, nil
}

// GrantServiceTicket issues a service ticket from an existing session.
func (s *Support) GrantServiceTicket(tgtID string, service *authentication.Service, fromNewLogin bool) (*ticket.ServiceTicket, error) {
	tgt, err := GetTicket[*ticket.TicketGrantingTicket](s.registry, tgtID)
	if err != nil {
		return nil, err
	}
	if tgt == nil {
		return nil, ticket.NewInvalidTicketError(tgtID)
	}

	st := tgt.GrantServiceTicket(ticket.NewID(ticket.PrefixServiceTicket), service, s.serviceTicketPolicy, fromNewLogin)
	if err := s.registry.AddTicket(st); err != nil {
		return nil, err
	}
	if err := s.registry.UpdateTicket(tgt); err != nil {
		return nil, err
	}
	return st, nil
}

// ValidateServiceTicket consumes a service ticket for the given service.
// A ticket may validate at most once; a service mismatch invalidates the
// attempt without consuming the ticket's session.
func (s *Support) ValidateServiceTicket(stID string, service *authentication.Service) (*ticket.ServiceTicket, *authentication.Authentication, error) {
	st, err := GetTicket[*ticket.ServiceTicket](s.registry, stID)
	if err != nil {
		return nil, nil, err
	}
	if st == nil {
		return nil, nil, ticket.NewInvalidTicketError(stID)
	}
	if st.Validated {
		return nil, nil, ticket.NewError(stID, "ticket has already been validated")
	}
	if service == nil || st.Service == nil || st.Service.ID != service.ID {
		return nil, nil, ticket.NewError(stID, "ticket was granted for a different service")
	}

	authn, err := s.AuthenticationFrom(st.TicketGrantingTicketID)
	if err != nil {
		return nil, nil, err
	}
	if authn == nil {
		return nil, nil, ticket.NewInvalidTicketError(st.TicketGrantingTicketID)
	}

	st.Validated = true
	st.Update()
	if st.IsExpired() {
		// one-time use: consuming the ticket destroys it
		if _, err := s.registry.DeleteTicket(st.ID()); err != nil {
			return nil, nil, err
		}
	} else if err := s.registry.UpdateTicket(st); err != nil {
		return nil, nil, err
	}
	return st, authn, nil
}

// GrantProxyGrantingTicket delegates proxy authentication from a validated
// service ticket.
func (s *Support) GrantProxyGrantingTicket(stID string) (*ticket.ProxyGrantingTicket, error) {
	st, err := GetTicket[*ticket.ServiceTicket](s.registry, stID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ticket.NewInvalidTicketError(stID)
	}
	tgt, err := GetTicket[*ticket.TicketGrantingTicket](s.registry, st.TicketGrantingTicketID)
	if err != nil {
		return nil, err
	}
	if tgt == nil {
		return nil, ticket.NewInvalidTicketError(st.TicketGrantingTicketID)
	}

	pgt := st.GrantProxyGrantingTicket(ticket.NewID(ticket.PrefixProxyGrantingTicket), tgt, s.proxyTicketPolicy)
	if err := s.registry.AddTicket(pgt); err != nil {
		return nil, err
	}
	if err := s.registry.UpdateTicket(tgt); err != nil {
		return nil, err
	}
	if err := s.registry.UpdateTicket(st); err != nil {
		return nil, err
	}
	return pgt, nil
}

// Destroy ends a session: the ticket-granting ticket and everything it
// owns are removed. Returns the number of tickets destroyed.
func (s *Support) Destroy(tgtID string) (int, error) {
	return s.registry.DeleteTicket(tgtID)
}
