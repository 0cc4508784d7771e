/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package resolver

import (
	"sort"

	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/apiserver/webflow"
)

// SelectiveResolver arbitrates between candidate multifactor events. It
// intersects candidates with the providers that are actually available,
// which shields the flow from triggers referencing disabled or
// misconfigured providers.
type SelectiveResolver struct {
	directory *mfa.Directory
}

func NewSelectiveResolver(directory *mfa.Directory) *SelectiveResolver {
	return &SelectiveResolver{directory: directory}
}

func (r *SelectiveResolver) Name() string {
	return "selective"
}

// Resolve picks one event from the candidates, nil when the intersection is
// empty and the caller should fall back to plain success. The winning event
// id must name a registered flow transition.
func (r *SelectiveResolver) Resolve(wc *webflow.Context, candidates []*webflow.Event) (*webflow.Event, error) {
	type match struct {
		event    *webflow.Event
		provider mfa.Provider
	}

	matches := make([]match, 0, len(candidates))
	for _, candidate := range candidates {
		provider, ok := r.directory.Lookup(candidate.ID)
		if !ok {
			klog.V(2).Infof("dropping candidate event %s: no such provider", candidate.ID)
			continue
		}
		available, err := provider.IsAvailable(wc.RegisteredService)
		if err != nil {
			return nil, err
		}
		if !available {
			klog.V(2).Infof("dropping candidate event %s: provider unavailable", candidate.ID)
			continue
		}
		matches = append(matches, match{event: candidate, provider: provider})
	}

	if len(matches) == 0 {
		return nil, nil
	}

	// prefer the least escalated applicable factor
	sort.SliceStable(matches, func(i, j int) bool {
		return mfa.PreferLowestOrder(matches[i].provider, matches[j].provider)
	})
	chosen := matches[0]

	if !wc.HasTransition(chosen.event.ID) {
		return nil, &webflow.NoSuchTransitionError{EventID: chosen.event.ID}
	}
	klog.V(2).Infof("arbitration selected provider %s", chosen.provider.ID())
	return chosen.event.WithProvider(chosen.provider), nil
}
