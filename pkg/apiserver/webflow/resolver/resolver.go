/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package resolver

import (
	"context"

	"casflow.io/casflow/pkg/apiserver/webflow"
)

// TriggerResolver wraps exactly one multifactor trigger policy. Resolve
// returns (nil, nil) when the policy does not apply to the request; a
// non-nil event names the provider the policy selected.
type TriggerResolver interface {
	Name() string
	Resolve(ctx context.Context, wc *webflow.Context) (*webflow.Event, error)
}

// EventResolver resolves an inbound request into exactly one webflow event.
// Implementations never return (nil, nil).
type EventResolver interface {
	Name() string
	Resolve(ctx context.Context, wc *webflow.Context) (*webflow.Event, error)
}
