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

// AuthenticationAttributeTrigger is the principal-attribute policy applied
// over authentication attributes instead, e.g. attributes contributed by
// handlers during the transaction.
type AuthenticationAttributeTrigger struct {
	directory          *mfa.Directory
	attributeNames     []string
	globalValuePattern string
	providerIDs        []string
}

func NewAuthenticationAttributeTrigger(directory *mfa.Directory, attributeNames []string, globalValuePattern string, providerIDs []string) *AuthenticationAttributeTrigger {
	return &AuthenticationAttributeTrigger{
		directory:          directory,
		attributeNames:     attributeNames,
		globalValuePattern: globalValuePattern,
		providerIDs:        providerIDs,
	}
}

func (t *AuthenticationAttributeTrigger) Name() string {
	return "authentication-attribute"
}

func (t *AuthenticationAttributeTrigger) Resolve(_ context.Context, wc *webflow.Context) (*webflow.Event, error) {
	if len(t.attributeNames) == 0 || wc.Authentication == nil {
		return nil, nil
	}
	return resolveByAttributes(wc, t.directory, wc.Authentication.Attributes,
		t.attributeNames, t.globalValuePattern, t.providerIDs)
}
