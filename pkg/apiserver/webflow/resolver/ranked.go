/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package resolver

import (
	"context"

	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/apiserver/authentication"
	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/apiserver/webflow"
)

// RankedResolver decides, for a request carrying an existing single sign-on
// session, whether the session already satisfies the multifactor context a
// service demands or whether a step-up challenge is required. Provider
// order is the strength ranking: a previously satisfied factor of equal or
// higher order subsumes the requested one.
type RankedResolver struct {
	delegating    *DelegatingResolver
	ticketSupport authentication.TicketRegistrySupport
	directory     *mfa.Directory
}

func NewRankedResolver(delegating *DelegatingResolver, ticketSupport authentication.TicketRegistrySupport, directory *mfa.Directory) *RankedResolver {
	return &RankedResolver{
		delegating:    delegating,
		ticketSupport: ticketSupport,
		directory:     directory,
	}
}

func (r *RankedResolver) Name() string {
	return "ranked"
}

func (r *RankedResolver) Resolve(ctx context.Context, wc *webflow.Context) (*webflow.Event, error) {
	if wc.Service == nil || wc.TicketGrantingTicketID == "" {
		return webflow.NewEvent(webflow.EventSuccess), nil
	}

	authn, err := r.ticketSupport.AuthenticationFrom(wc.TicketGrantingTicketID)
	if err != nil {
		return nil, err
	}
	if authn == nil {
		return webflow.NewEvent(webflow.EventSuccess), nil
	}

	wc.Authentication = authn
	wc.Builder = authentication.NewBuilderFrom(authn)

	event, err := r.delegating.Resolve(ctx, wc)
	if err != nil {
		return nil, err
	}
	if event.IsTerminal() {
		return event, nil
	}

	// the event names a required provider; rank it against what the
	// session already satisfied
	requested, ok := r.directory.Lookup(event.ID)
	if !ok {
		return nil, &webflow.NoSuchTransitionError{EventID: event.ID}
	}

	if r.subsumes(authn, requested) {
		klog.V(2).Infof("session already satisfies provider %s, resuming", requested.ID())
		return webflow.NewEvent(webflow.EventSuccess).WithBuilder(wc.Builder), nil
	}

	if !wc.HasTransition(event.ID) {
		return nil, &webflow.NoSuchTransitionError{EventID: event.ID}
	}
	klog.V(2).Infof("step-up challenge required for provider %s", requested.ID())
	return event.
		WithPrincipal(authn.Principal).
		WithService(wc.Service).
		WithRegisteredService(wc.RegisteredService).
		WithProvider(requested), nil
}

// subsumes reports whether any provider already satisfied by the
// authentication is at least as strong as the requested one.
func (r *RankedResolver) subsumes(authn *authentication.Authentication, requested mfa.Provider) bool {
	for _, id := range authn.SatisfiedProviders() {
		satisfied, ok := r.directory.Lookup(id)
		if !ok {
			continue
		}
		if satisfied.Matches(requested) || satisfied.Order() >= requested.Order() {
			return true
		}
	}
	return false
}
