/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package trigger

import (
	"context"
	"regexp"

	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/apiserver/webflow"
)

// RegisteredServiceTrigger applies the matched service's own multifactor
// policy: the providers it lists, optionally gated on a principal attribute
// the policy names.
type RegisteredServiceTrigger struct {
	directory *mfa.Directory
}

func NewRegisteredServiceTrigger(directory *mfa.Directory) *RegisteredServiceTrigger {
	return &RegisteredServiceTrigger{directory: directory}
}

func (t *RegisteredServiceTrigger) Name() string {
	return "registered-service"
}

func (t *RegisteredServiceTrigger) Resolve(_ context.Context, wc *webflow.Context) (*webflow.Event, error) {
	rs := wc.RegisteredService
	if rs == nil || len(rs.MultifactorPolicy.ProviderIDs) == 0 || wc.Authentication == nil {
		return nil, nil
	}

	policy := rs.MultifactorPolicy
	if policy.PrincipalAttributeNameTrigger != "" {
		if wc.Authentication.Principal == nil {
			return nil, nil
		}
		if !principalAttributeMatches(wc.Authentication.Principal.Attributes,
			policy.PrincipalAttributeNameTrigger, policy.PrincipalAttributeValueToMatch) {
			return nil, nil
		}
	}

	for _, id := range policy.ProviderIDs {
		if event, err := emitByID(wc, t.directory, id); event != nil || err != nil {
			return event, err
		}
	}
	return nil, nil
}

// RegisteredServicePrincipalAttributeTrigger is the service-scoped variant
// of the principal-attribute policy: it runs only when the matched service
// lists providers and its attribute trigger is configured.
type RegisteredServicePrincipalAttributeTrigger struct {
	directory *mfa.Directory
}

func NewRegisteredServicePrincipalAttributeTrigger(directory *mfa.Directory) *RegisteredServicePrincipalAttributeTrigger {
	return &RegisteredServicePrincipalAttributeTrigger{directory: directory}
}

func (t *RegisteredServicePrincipalAttributeTrigger) Name() string {
	return "registered-service-principal-attribute"
}

func (t *RegisteredServicePrincipalAttributeTrigger) Resolve(_ context.Context, wc *webflow.Context) (*webflow.Event, error) {
	rs := wc.RegisteredService
	if rs == nil || wc.Authentication == nil || wc.Authentication.Principal == nil {
		return nil, nil
	}
	policy := rs.MultifactorPolicy
	if policy.PrincipalAttributeNameTrigger == "" || len(policy.ProviderIDs) == 0 {
		return nil, nil
	}
	return resolveByAttributes(wc, t.directory, wc.Authentication.Principal.Attributes,
		[]string{policy.PrincipalAttributeNameTrigger}, policy.PrincipalAttributeValueToMatch, policy.ProviderIDs)
}

func principalAttributeMatches(attributes map[string][]string, name, valuePattern string) bool {
	values, ok := attributes[name]
	if !ok {
		return false
	}
	if valuePattern == "" {
		return len(values) > 0
	}
	re, err := regexp.Compile(valuePattern)
	if err != nil {
		klog.Errorf("invalid principal attribute pattern %q: %v", valuePattern, err)
		return false
	}
	for _, v := range values {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}
