/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package trigger

import (
	"net/http"

	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/apiserver/webflow/resolver"
)

// Options configure the trigger policies. An unconfigured policy produces
// no trigger at all.
type Options struct {
	// GlobalProviderID demands this provider for every request.
	GlobalProviderID string `json:"globalProviderId,omitempty" yaml:"globalProviderId" mapstructure:"globalProviderId"`

	// RequestParameter overrides the parameter clients use to request a
	// provider; empty keeps the policy off, "authn_method" is conventional.
	RequestParameter        string `json:"requestParameter,omitempty" yaml:"requestParameter" mapstructure:"requestParameter"`
	RequestParameterEnabled bool   `json:"requestParameterEnabled,omitempty" yaml:"requestParameterEnabled" mapstructure:"requestParameterEnabled"`

	// Principal / authentication attribute policies.
	PrincipalAttributeNames             []string `json:"principalAttributeNames,omitempty" yaml:"principalAttributeNames" mapstructure:"principalAttributeNames"`
	PrincipalAttributeValuePattern      string   `json:"principalAttributeValuePattern,omitempty" yaml:"principalAttributeValuePattern" mapstructure:"principalAttributeValuePattern"`
	PrincipalAttributeProviderIDs       []string `json:"principalAttributeProviderIds,omitempty" yaml:"principalAttributeProviderIds" mapstructure:"principalAttributeProviderIds"`
	AuthenticationAttributeNames        []string `json:"authenticationAttributeNames,omitempty" yaml:"authenticationAttributeNames" mapstructure:"authenticationAttributeNames"`
	AuthenticationAttributeValuePattern string   `json:"authenticationAttributeValuePattern,omitempty" yaml:"authenticationAttributeValuePattern" mapstructure:"authenticationAttributeValuePattern"`
	AuthenticationAttributeProviderIDs  []string `json:"authenticationAttributeProviderIds,omitempty" yaml:"authenticationAttributeProviderIds" mapstructure:"authenticationAttributeProviderIds"`

	Adaptive *AdaptiveOptions `json:"adaptive,omitempty" yaml:"adaptive" mapstructure:"adaptive"`

	TimeWindows []TimeWindow `json:"timeWindows,omitempty" yaml:"timeWindows" mapstructure:"timeWindows"`

	// RESTEndpointURL is consulted per request when set.
	RESTEndpointURL string `json:"restEndpointUrl,omitempty" yaml:"restEndpointUrl" mapstructure:"restEndpointUrl"`

	// ScriptedPolicy is an inline rego document; ScriptedQuery defaults to
	// data.mfa.provider.
	ScriptedPolicy string `json:"scriptedPolicy,omitempty" yaml:"scriptedPolicy" mapstructure:"scriptedPolicy"`
	ScriptedQuery  string `json:"scriptedQuery,omitempty" yaml:"scriptedQuery" mapstructure:"scriptedQuery"`
}

func NewOptions() *Options {
	return &Options{}
}

// NewTriggers assembles the configured triggers in their canonical
// registration order. The registered-service policies are always active;
// they no-op for services without a multifactor policy.
func NewTriggers(directory *mfa.Directory, o *Options) []resolver.TriggerResolver {
	if o == nil {
		o = NewOptions()
	}
	triggers := make([]resolver.TriggerResolver, 0)

	if o.GlobalProviderID != "" {
		triggers = append(triggers, NewGlobalTrigger(directory, o.GlobalProviderID))
	}
	if o.RequestParameterEnabled {
		triggers = append(triggers, NewRequestParameterTrigger(directory, o.RequestParameter))
	}
	if len(o.PrincipalAttributeNames) > 0 {
		triggers = append(triggers, NewPrincipalAttributeTrigger(directory,
			o.PrincipalAttributeNames, o.PrincipalAttributeValuePattern, o.PrincipalAttributeProviderIDs))
	}
	if len(o.AuthenticationAttributeNames) > 0 {
		triggers = append(triggers, NewAuthenticationAttributeTrigger(directory,
			o.AuthenticationAttributeNames, o.AuthenticationAttributeValuePattern, o.AuthenticationAttributeProviderIDs))
	}
	triggers = append(triggers,
		NewRegisteredServiceTrigger(directory),
		NewRegisteredServicePrincipalAttributeTrigger(directory))
	if o.Adaptive != nil {
		triggers = append(triggers, NewAdaptiveTrigger(directory, o.Adaptive))
	}
	if len(o.TimeWindows) > 0 {
		triggers = append(triggers, NewTimedTrigger(directory, o.TimeWindows))
	}
	if o.RESTEndpointURL != "" {
		triggers = append(triggers, NewRESTEndpointTrigger(directory, o.RESTEndpointURL, http.DefaultClient))
	}
	if o.ScriptedPolicy != "" {
		triggers = append(triggers, NewScriptedTrigger(directory, o.ScriptedPolicy, o.ScriptedQuery))
	}
	return triggers
}
