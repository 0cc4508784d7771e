/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package mfa

import (
	"testing"

	"casflow.io/casflow/pkg/apiserver/authentication"
)

func authnWith(principalAttrs, authnAttrs map[string][]string) *authentication.Authentication {
	principal := authentication.NewPrincipal("casuser")
	for name, values := range principalAttrs {
		principal.WithAttribute(name, values...)
	}
	return &authentication.Authentication{
		Principal:  principal,
		Attributes: authnAttrs,
	}
}

func TestBypassEvaluator(t *testing.T) {
	testCases := []struct {
		description string
		options     *BypassOptions
		authn       *authentication.Authentication
		credential  authentication.Credential
		applies     bool
	}{
		{
			description: "no rules configured, provider applies",
			options:     &BypassOptions{},
			authn:       authnWith(nil, nil),
			applies:     true,
		},
		{
			description: "principal attribute matches, bypassed",
			options:     &BypassOptions{PrincipalAttributeName: "memberOf", PrincipalAttributeValue: "trusted-.*"},
			authn:       authnWith(map[string][]string{"memberOf": {"trusted-staff"}}, nil),
			applies:     false,
		},
		{
			description: "principal attribute value does not match, provider applies",
			options:     &BypassOptions{PrincipalAttributeName: "memberOf", PrincipalAttributeValue: "trusted-.*"},
			authn:       authnWith(map[string][]string{"memberOf": {"contractors"}}, nil),
			applies:     true,
		},
		{
			description: "principal attribute present with any value, bypassed",
			options:     &BypassOptions{PrincipalAttributeName: "mfaExempt"},
			authn:       authnWith(map[string][]string{"mfaExempt": {"true"}}, nil),
			applies:     false,
		},
		{
			description: "authentication attribute matches, bypassed",
			options:     &BypassOptions{AuthenticationAttributeName: "authenticationMethod", AuthenticationAttributeValue: "X509.*"},
			authn:       authnWith(nil, map[string][]string{"authenticationMethod": {"X509CertificateHandler"}}),
			applies:     false,
		},
		{
			description: "authentication method name matches, bypassed",
			options:     &BypassOptions{AuthenticationMethodName: "Static.*"},
			authn: authnWith(nil, map[string][]string{
				authentication.AttributeAuthenticationMethod: {"StaticCredentialsHandler"},
			}),
			applies: false,
		},
		{
			description: "successful handler name matches, bypassed",
			options:     &BypassOptions{AuthenticationHandlerName: "Ldap.*"},
			authn: authnWith(nil, map[string][]string{
				authentication.AttributeSuccessfulHandlers: {"LdapHandler"},
			}),
			applies: false,
		},
		{
			description: "credential type matches, bypassed",
			options:     &BypassOptions{CredentialClassType: "UsernamePassword"},
			authn:       authnWith(nil, nil),
			credential:  &authentication.UsernamePasswordCredential{Username: "casuser"},
			applies:     false,
		},
		{
			description: "unrelated rules configured, provider applies",
			options: &BypassOptions{
				PrincipalAttributeName:   "memberOf",
				AuthenticationMethodName: "X509.*",
			},
			authn:   authnWith(map[string][]string{"department": {"it"}}, nil),
			applies: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			evaluator := NewBypassEvaluator(testCase.options)
			if got := evaluator.Eval(testCase.authn, testCase.credential); got != testCase.applies {
				t.Errorf("expected applies=%v, got %v", testCase.applies, got)
			}
		})
	}
}

func TestProviderFailureModes(t *testing.T) {
	unreachable := func() error { return errAlwaysDown }

	testCases := []struct {
		description string
		mode        FailureMode
		available   bool
		wantErr     bool
	}{
		{description: "none assumes available", mode: FailureModeNone, available: true},
		{description: "open skips silently", mode: FailureModeOpen, available: false},
		{description: "closed fails hard", mode: FailureModeClosed, available: false, wantErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			provider := NewProvider("mfa-totp", 10).
				WithFailureMode(testCase.mode).
				WithPing(unreachable)

			available, err := provider.IsAvailable(nil)
			if available != testCase.available {
				t.Errorf("expected available=%v, got %v", testCase.available, available)
			}
			if (err != nil) != testCase.wantErr {
				t.Errorf("expected error=%v, got %v", testCase.wantErr, err)
			}
			if testCase.wantErr && !authentication.IsAuthenticationError(err) {
				t.Errorf("closed mode must surface an authentication error, got %v", err)
			}
		})
	}
}

var errAlwaysDown = authentication.NewError(authentication.CodeProviderUnavailable, "down")
