/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

// Package trigger holds the multifactor trigger policies. Each trigger
// wraps exactly one policy, decides independently whether it applies to the
// request and, when it does, emits a candidate event naming the selected
// provider. Triggers that do not apply report no opinion, never an error.
package trigger

import (
	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/apiserver/webflow"
)

// emit builds the candidate event for a selected provider, applying the
// provider's bypass rules and availability probe first. Returns (nil, nil)
// when the provider is bypassed or silently unavailable.
func emit(wc *webflow.Context, provider mfa.Provider) (*webflow.Event, error) {
	evaluateBypass := true
	if wc.RegisteredService != nil && wc.RegisteredService.MultifactorPolicy.BypassEnabled {
		evaluateBypass = false
	}
	if evaluateBypass && !provider.Bypass().Eval(wc.Authentication, wc.Credential) {
		klog.V(4).Infof("provider %s bypassed for this request", provider.ID())
		return nil, nil
	}

	available, err := provider.IsAvailable(wc.RegisteredService)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, nil
	}

	event := webflow.NewEvent(provider.ID()).
		WithProvider(provider).
		WithService(wc.Service).
		WithRegisteredService(wc.RegisteredService)
	if wc.Authentication != nil {
		event.WithPrincipal(wc.Authentication.Principal)
	}
	return event, nil
}

// emitByID resolves a provider id through the directory before emitting.
// An id with no registered provider is a no-opinion, logged for diagnosis.
func emitByID(wc *webflow.Context, directory *mfa.Directory, providerID string) (*webflow.Event, error) {
	provider, ok := directory.Lookup(providerID)
	if !ok {
		klog.V(2).Infof("trigger selected unknown provider %s, ignoring", providerID)
		return nil, nil
	}
	return emit(wc, provider)
}
