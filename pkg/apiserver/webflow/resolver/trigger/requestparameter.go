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

// DefaultRequestParameter is the request parameter clients use to ask for a
// specific multifactor mechanism.
const DefaultRequestParameter = "authn_method"

// RequestParameterTrigger lets the client request a provider explicitly via
// a request parameter.
type RequestParameterTrigger struct {
	directory *mfa.Directory
	parameter string
}

func NewRequestParameterTrigger(directory *mfa.Directory, parameter string) *RequestParameterTrigger {
	if parameter == "" {
		parameter = DefaultRequestParameter
	}
	return &RequestParameterTrigger{directory: directory, parameter: parameter}
}

func (t *RequestParameterTrigger) Name() string {
	return "request-parameter"
}

func (t *RequestParameterTrigger) Resolve(_ context.Context, wc *webflow.Context) (*webflow.Event, error) {
	if wc.Authentication == nil {
		return nil, nil
	}
	requested := wc.Parameter(t.parameter)
	if requested == "" {
		return nil, nil
	}
	return emitByID(wc, t.directory, requested)
}
