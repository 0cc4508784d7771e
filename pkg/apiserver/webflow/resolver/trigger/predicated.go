/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package trigger

import (
	"context"

	"casflow.io/casflow/pkg/apiserver/authentication"
	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/apiserver/webflow"
)

// ProviderPredicate selects one provider for a principal, nil when none
// applies.
type ProviderPredicate func(principal *authentication.Principal, providers []mfa.Provider) mfa.Provider

// PredicatedTrigger delegates provider selection to an injected predicate
// over the principal and all configured providers. It backs deployments
// with selection logic too specific for the declarative policies.
type PredicatedTrigger struct {
	directory *mfa.Directory
	predicate ProviderPredicate
}

func NewPredicatedTrigger(directory *mfa.Directory, predicate ProviderPredicate) *PredicatedTrigger {
	return &PredicatedTrigger{directory: directory, predicate: predicate}
}

func (t *PredicatedTrigger) Name() string {
	return "predicated-principal-attribute"
}

func (t *PredicatedTrigger) Resolve(_ context.Context, wc *webflow.Context) (*webflow.Event, error) {
	if t.predicate == nil || wc.Authentication == nil || wc.Authentication.Principal == nil {
		return nil, nil
	}
	provider := t.predicate(wc.Authentication.Principal, t.directory.List())
	if provider == nil {
		return nil, nil
	}
	return emit(wc, provider)
}
