/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package services

import (
	"regexp"

	"k8s.io/apimachinery/pkg/util/sets"

	"casflow.io/casflow/pkg/apiserver/authentication"
)

// Well-known registered service properties.
const (
	// PropertyJWTAsServiceTicket makes validated service tickets for this
	// service render as signed JWTs.
	PropertyJWTAsServiceTicket = "jwtAsServiceTicket"
)

// AccessStrategy controls whether a registered service may participate in
// single sign-on at all.
type AccessStrategy struct {
	Enabled    bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	SSOEnabled bool `json:"ssoEnabled" yaml:"ssoEnabled" mapstructure:"ssoEnabled"`

	// RequiredAttributes must all be present (with at least one matching
	// value) on the principal for access to be granted.
	RequiredAttributes map[string][]string `json:"requiredAttributes,omitempty" yaml:"requiredAttributes" mapstructure:"requiredAttributes"`
}

// MultifactorPolicy is the per-service MFA trigger configuration.
type MultifactorPolicy struct {
	ProviderIDs []string `json:"providerIds,omitempty" yaml:"providerIds" mapstructure:"providerIds"`

	// FailureMode overrides the provider failure mode for this service.
	// One of CLOSED, OPEN, NONE; empty means no override.
	FailureMode string `json:"failureMode,omitempty" yaml:"failureMode" mapstructure:"failureMode"`

	// PrincipalAttributeNameTrigger limits the policy to principals
	// carrying the named attribute whose value matches
	// PrincipalAttributeValueToMatch.
	PrincipalAttributeNameTrigger  string `json:"principalAttributeNameTrigger,omitempty" yaml:"principalAttributeNameTrigger" mapstructure:"principalAttributeNameTrigger"`
	PrincipalAttributeValueToMatch string `json:"principalAttributeValueToMatch,omitempty" yaml:"principalAttributeValueToMatch" mapstructure:"principalAttributeValueToMatch"`

	// BypassEnabled skips provider bypass evaluation for this service.
	BypassEnabled bool `json:"bypassEnabled,omitempty" yaml:"bypassEnabled" mapstructure:"bypassEnabled"`
}

// RegisteredService is a relying party pre-registered with its own access,
// MFA and attribute release policies.
type RegisteredService struct {
	ID              int64  `json:"id" yaml:"id" mapstructure:"id"`
	Name            string `json:"name" yaml:"name" mapstructure:"name"`
	Description     string `json:"description,omitempty" yaml:"description" mapstructure:"description"`
	EvaluationOrder int    `json:"evaluationOrder" yaml:"evaluationOrder" mapstructure:"evaluationOrder"`

	// ServiceID is an anchored regular expression matched against the
	// inbound service id.
	ServiceID string `json:"serviceId" yaml:"serviceId" mapstructure:"serviceId"`

	AccessStrategy         AccessStrategy         `json:"accessStrategy" yaml:"accessStrategy" mapstructure:"accessStrategy"`
	MultifactorPolicy      MultifactorPolicy      `json:"multifactorPolicy" yaml:"multifactorPolicy" mapstructure:"multifactorPolicy"`
	AttributeReleasePolicy AttributeReleasePolicy `json:"attributeReleasePolicy" yaml:"attributeReleasePolicy" mapstructure:"attributeReleasePolicy"`

	Properties map[string]string `json:"properties,omitempty" yaml:"properties" mapstructure:"properties"`

	pattern *regexp.Regexp
}

// Matches reports whether the inbound service falls under this registration.
func (rs *RegisteredService) Matches(service *authentication.Service) bool {
	if service == nil || rs.ServiceID == "" {
		return false
	}
	if rs.pattern == nil {
		compiled, err := regexp.Compile("^" + rs.ServiceID + "$")
		if err != nil {
			return false
		}
		rs.pattern = compiled
	}
	return rs.pattern.MatchString(service.ID)
}

// CheckAccess evaluates the access strategy against the given principal.
// A nil principal checks only the service-level switches.
func (rs *RegisteredService) CheckAccess(principal *authentication.Principal) error {
	if !rs.AccessStrategy.Enabled {
		return authentication.NewError(authentication.CodeUnauthorizedService,
			"service %q is disabled", rs.Name)
	}
	if principal == nil || len(rs.AccessStrategy.RequiredAttributes) == 0 {
		return nil
	}
	for name, required := range rs.AccessStrategy.RequiredAttributes {
		have := sets.NewString(principal.Attributes[name]...)
		if !have.HasAny(required...) {
			return authentication.NewError(authentication.CodeUnauthorizedService,
				"principal %q is missing required attribute %q for service %q", principal.ID, name, rs.Name)
		}
	}
	return nil
}

func (rs *RegisteredService) Property(name string) string {
	return rs.Properties[name]
}
