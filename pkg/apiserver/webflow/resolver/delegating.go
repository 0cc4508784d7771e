/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package resolver

import (
	"context"
	"net/http"
	"sort"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/apiserver/authentication"
	"casflow.io/casflow/pkg/apiserver/webflow"
	"casflow.io/casflow/pkg/services"
	"casflow.io/casflow/pkg/ticket"
)

// DelegatingResolver is the root of the event resolution pipeline. It runs
// the primary authentication transaction when a credential is present,
// enforces the registered service's access strategy, collects candidate
// multifactor events from the configured triggers and arbitrates them
// through the selective resolver. When nothing applies the request falls
// through to success, or successWithWarnings when the transaction recorded
// handler warnings: multifactor is opt-in per request.
type DelegatingResolver struct {
	support   authentication.SystemSupport
	manager   services.Manager
	enforcer  services.AccessEnforcer
	triggers  []TriggerResolver
	selective *SelectiveResolver
}

func NewDelegatingResolver(
	support authentication.SystemSupport,
	manager services.Manager,
	enforcer services.AccessEnforcer,
	selective *SelectiveResolver,
	triggers ...TriggerResolver,
) *DelegatingResolver {
	return &DelegatingResolver{
		support:   support,
		manager:   manager,
		enforcer:  enforcer,
		triggers:  triggers,
		selective: selective,
	}
}

func (r *DelegatingResolver) Name() string {
	return "delegating"
}

// Resolve returns exactly one event. Domain failures surface as terminal
// authenticationFailure events, anything unexpected as a terminal error
// event; both carry the cause and set the unauthorized HTTP status. Fatal
// configuration errors propagate unchanged.
func (r *DelegatingResolver) Resolve(ctx context.Context, wc *webflow.Context) (*webflow.Event, error) {
	event, err := r.resolve(ctx, wc)
	if err == nil {
		wc.RecordEvent(event)
		return event, nil
	}
	if webflow.IsFatal(err) {
		return nil, err
	}

	wc.HTTPStatus = http.StatusUnauthorized
	if authentication.IsAuthenticationError(err) || ticket.IsTicketError(err) {
		klog.V(2).Infof("authentication failed: %v", err)
		event = webflow.NewEvent(webflow.EventAuthenticationFailure).WithError(err)
	} else {
		klog.Errorf("event resolution failed: %v", err)
		event = webflow.NewEvent(webflow.EventError).WithError(err)
	}
	wc.RecordEvent(event)
	return event, nil
}

func (r *DelegatingResolver) resolve(ctx context.Context, wc *webflow.Context) (*webflow.Event, error) {
	if wc.Credential != nil {
		builder, err := r.support.HandleInitialAuthenticationTransaction(ctx, wc.Service, wc.Credential)
		if err != nil {
			return nil, err
		}
		wc.Builder = builder
		wc.Authentication = builder.InitialAuthentication()
	}

	if wc.Service != nil {
		if wc.RegisteredService == nil {
			wc.RegisteredService = r.manager.FindServiceBy(wc.Service)
		}
		var principal *authentication.Principal
		if wc.Authentication != nil {
			principal = wc.Authentication.Principal
		}
		result := r.enforcer.Execute(&services.AuditableContext{
			Service:           wc.Service,
			RegisteredService: wc.RegisteredService,
			Principal:         principal,
		})
		if err := result.Err(); err != nil {
			return nil, err
		}
	}

	candidates, err := r.collectCandidates(ctx, wc)
	if err != nil {
		return nil, err
	}

	if len(candidates) > 0 {
		event, err := r.selective.Resolve(wc, candidates)
		if err != nil {
			return nil, err
		}
		if event != nil {
			return event.WithBuilder(wc.Builder), nil
		}
	}

	if wc.Authentication != nil && len(wc.Authentication.Warnings) > 0 {
		return webflow.NewEvent(webflow.EventSuccessWithWarnings).WithBuilder(wc.Builder), nil
	}
	return webflow.NewEvent(webflow.EventSuccess).WithBuilder(wc.Builder), nil
}

// collectCandidates runs every trigger in registration order and gathers
// the non-nil events into a set keyed by event id, sorted for deterministic
// arbitration. Several triggers demanding the same provider yield one
// candidate.
func (r *DelegatingResolver) collectCandidates(ctx context.Context, wc *webflow.Context) ([]*webflow.Event, error) {
	candidates := make([]*webflow.Event, 0)
	seen := sets.NewString()
	for _, trigger := range r.triggers {
		event, err := trigger.Resolve(ctx, wc)
		if err != nil {
			return nil, err
		}
		if event == nil {
			continue
		}
		if seen.Has(event.ID) {
			klog.V(4).Infof("trigger %s repeated candidate event %s, ignoring", trigger.Name(), event.ID)
			continue
		}
		seen.Insert(event.ID)
		klog.V(4).Infof("trigger %s resolved candidate event %s", trigger.Name(), event.ID)
		wc.RecordEvent(event)
		candidates = append(candidates, event)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ID < candidates[j].ID
	})
	return candidates, nil
}
