/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package mfa

import (
	"regexp"

	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/apiserver/authentication"
)

// BypassOptions configure when a provider's challenge is skipped. Every
// rule is expressed as "bypass when this matches"; an unconfigured rule
// never matches.
type BypassOptions struct {
	// PrincipalAttributeName/Value bypass when the principal carries the
	// named attribute with a value matching the pattern. An empty value
	// pattern matches any value.
	PrincipalAttributeName  string `json:"principalAttributeName,omitempty" yaml:"principalAttributeName" mapstructure:"principalAttributeName"`
	PrincipalAttributeValue string `json:"principalAttributeValue,omitempty" yaml:"principalAttributeValue" mapstructure:"principalAttributeValue"`

	// AuthenticationAttributeName/Value work the same over authentication
	// attributes.
	AuthenticationAttributeName  string `json:"authenticationAttributeName,omitempty" yaml:"authenticationAttributeName" mapstructure:"authenticationAttributeName"`
	AuthenticationAttributeValue string `json:"authenticationAttributeValue,omitempty" yaml:"authenticationAttributeValue" mapstructure:"authenticationAttributeValue"`

	// AuthenticationMethodName bypasses when any recorded authentication
	// method matches the pattern.
	AuthenticationMethodName string `json:"authenticationMethodName,omitempty" yaml:"authenticationMethodName" mapstructure:"authenticationMethodName"`

	// AuthenticationHandlerName bypasses when any successful handler name
	// matches the pattern.
	AuthenticationHandlerName string `json:"authenticationHandlerName,omitempty" yaml:"authenticationHandlerName" mapstructure:"authenticationHandlerName"`

	// CredentialClassType bypasses when the credential type matches.
	CredentialClassType string `json:"credentialClassType,omitempty" yaml:"credentialClassType" mapstructure:"credentialClassType"`
}

// BypassEvaluator decides whether a provider applies to a request. Eval
// returns true when the provider should run, false when it is bypassed.
type BypassEvaluator struct {
	options *BypassOptions
}

func NewBypassEvaluator(options *BypassOptions) *BypassEvaluator {
	if options == nil {
		options = &BypassOptions{}
	}
	return &BypassEvaluator{options: options}
}

// Eval applies all configured rules; any matching rule bypasses the
// provider. All rules unconfigured means the provider always applies.
func (b *BypassEvaluator) Eval(authn *authentication.Authentication, credential authentication.Credential) bool {
	if authn == nil {
		return true
	}
	opts := b.options

	if opts.PrincipalAttributeName != "" && authn.Principal != nil {
		if matchAttribute(authn.Principal.Attributes, opts.PrincipalAttributeName, opts.PrincipalAttributeValue) {
			klog.V(4).Infof("bypassing mfa for %s: principal attribute %s matched", authn.Principal.ID, opts.PrincipalAttributeName)
			return false
		}
	}

	if opts.AuthenticationAttributeName != "" {
		if matchAttribute(authn.Attributes, opts.AuthenticationAttributeName, opts.AuthenticationAttributeValue) {
			klog.V(4).Infof("bypassing mfa: authentication attribute %s matched", opts.AuthenticationAttributeName)
			return false
		}
	}

	if opts.AuthenticationMethodName != "" {
		if matchAnyValue(authn.Attributes[authentication.AttributeAuthenticationMethod], opts.AuthenticationMethodName) {
			return false
		}
	}

	if opts.AuthenticationHandlerName != "" {
		if matchAnyValue(authn.Attributes[authentication.AttributeSuccessfulHandlers], opts.AuthenticationHandlerName) {
			return false
		}
	}

	if opts.CredentialClassType != "" && credential != nil {
		if matched, _ := regexp.MatchString(opts.CredentialClassType, credential.Type()); matched {
			return false
		}
	}

	return true
}

func matchAttribute(attributes map[string][]string, name, valuePattern string) bool {
	values, ok := attributes[name]
	if !ok {
		return false
	}
	if valuePattern == "" {
		return len(values) > 0
	}
	return matchAnyValue(values, valuePattern)
}

func matchAnyValue(values []string, pattern string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		klog.Errorf("invalid bypass pattern %q: %v", pattern, err)
		return false
	}
	for _, v := range values {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}
