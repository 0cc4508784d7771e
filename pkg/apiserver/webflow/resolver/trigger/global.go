/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package trigger

import (
	"context"

	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/apiserver/webflow"
)

// GlobalTrigger demands one fixed provider for every authenticated request.
type GlobalTrigger struct {
	directory  *mfa.Directory
	providerID string
}

func NewGlobalTrigger(directory *mfa.Directory, providerID string) *GlobalTrigger {
	return &GlobalTrigger{directory: directory, providerID: providerID}
}

func (t *GlobalTrigger) Name() string {
	return "global"
}

func (t *GlobalTrigger) Resolve(_ context.Context, wc *webflow.Context) (*webflow.Event, error) {
	if t.providerID == "" || wc.Authentication == nil {
		return nil, nil
	}
	return emitByID(wc, t.directory, t.providerID)
}
