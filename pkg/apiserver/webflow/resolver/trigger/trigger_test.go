/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package trigger

import (
	"context"
	"testing"
	"time"

	"casflow.io/casflow/pkg/apiserver/authentication"
	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/apiserver/webflow"
	"casflow.io/casflow/pkg/services"
)

func testDirectory() *mfa.Directory {
	return mfa.NewDirectory(
		mfa.NewProvider("mfa-totp", 10),
		mfa.NewProvider("mfa-duo", 20),
	)
}

func authenticatedContext(attrs map[string][]string) *webflow.Context {
	principal := authentication.NewPrincipal("casuser")
	for name, values := range attrs {
		principal.WithAttribute(name, values...)
	}
	wc := webflow.NewContext()
	wc.Service = authentication.NewService("https://app.example.org")
	wc.Authentication = &authentication.Authentication{
		Principal:          principal,
		AuthenticationTime: time.Now(),
		Attributes:         map[string][]string{},
	}
	wc.RegisterTransitions("mfa-totp", "mfa-duo")
	return wc
}

func TestGlobalTrigger(t *testing.T) {
	trigger := NewGlobalTrigger(testDirectory(), "mfa-totp")
	wc := authenticatedContext(nil)

	event, err := trigger.Resolve(context.Background(), wc)
	if err != nil {
		t.Fatal(err)
	}
	if event == nil || event.ID != "mfa-totp" {
		t.Fatalf("expected mfa-totp, got %v", event)
	}
	if event.Attributes.Principal == nil || event.Attributes.Principal.ID != "casuser" {
		t.Error("event must carry the principal")
	}

	// unauthenticated requests are not triggered
	if event, _ := trigger.Resolve(context.Background(), webflow.NewContext()); event != nil {
		t.Error("expected no opinion without an authentication")
	}
}

func TestRequestParameterTrigger(t *testing.T) {
	trigger := NewRequestParameterTrigger(testDirectory(), "")

	wc := authenticatedContext(nil)
	wc.Parameters[DefaultRequestParameter] = "mfa-duo"

	event, err := trigger.Resolve(context.Background(), wc)
	if err != nil {
		t.Fatal(err)
	}
	if event == nil || event.ID != "mfa-duo" {
		t.Fatalf("expected mfa-duo, got %v", event)
	}

	// no parameter, no opinion
	if event, _ := trigger.Resolve(context.Background(), authenticatedContext(nil)); event != nil {
		t.Error("expected no opinion without the parameter")
	}

	// unknown provider ids are ignored, not errors
	wc = authenticatedContext(nil)
	wc.Parameters[DefaultRequestParameter] = "mfa-bogus"
	event, err = trigger.Resolve(context.Background(), wc)
	if err != nil || event != nil {
		t.Errorf("expected no opinion for an unknown provider, got %v %v", event, err)
	}
}

func TestPrincipalAttributeTrigger(t *testing.T) {
	testCases := []struct {
		description  string
		valuePattern string
		providerIDs  []string
		attrs        map[string][]string
		expected     string
	}{
		{
			description: "attribute value names the provider",
			attrs:       map[string][]string{"authnPreference": {"mfa-duo"}},
			expected:    "mfa-duo",
		},
		{
			description: "no matching attribute, no opinion",
			attrs:       map[string][]string{"department": {"it"}},
			expected:    "",
		},
		{
			description:  "pattern match selects the configured providers",
			valuePattern: "privileged-.*",
			providerIDs:  []string{"mfa-totp"},
			attrs:        map[string][]string{"authnPreference": {"privileged-admin"}},
			expected:     "mfa-totp",
		},
		{
			description:  "pattern mismatch, no opinion",
			valuePattern: "privileged-.*",
			providerIDs:  []string{"mfa-totp"},
			attrs:        map[string][]string{"authnPreference": {"regular-user"}},
			expected:     "",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			trigger := NewPrincipalAttributeTrigger(testDirectory(),
				[]string{"authnPreference"}, testCase.valuePattern, testCase.providerIDs)
			wc := authenticatedContext(testCase.attrs)

			event, err := trigger.Resolve(context.Background(), wc)
			if err != nil {
				t.Fatal(err)
			}
			if testCase.expected == "" {
				if event != nil {
					t.Errorf("expected no opinion, got %s", event.ID)
				}
				return
			}
			if event == nil || event.ID != testCase.expected {
				t.Fatalf("expected %s, got %v", testCase.expected, event)
			}
		})
	}
}

func TestRegisteredServiceTrigger(t *testing.T) {
	trigger := NewRegisteredServiceTrigger(testDirectory())

	wc := authenticatedContext(nil)
	wc.RegisteredService = &services.RegisteredService{
		MultifactorPolicy: services.MultifactorPolicy{ProviderIDs: []string{"mfa-duo"}},
	}

	event, err := trigger.Resolve(context.Background(), wc)
	if err != nil {
		t.Fatal(err)
	}
	if event == nil || event.ID != "mfa-duo" {
		t.Fatalf("expected mfa-duo, got %v", event)
	}

	// policy gated on a principal attribute the principal lacks
	wc = authenticatedContext(nil)
	wc.RegisteredService = &services.RegisteredService{
		MultifactorPolicy: services.MultifactorPolicy{
			ProviderIDs:                    []string{"mfa-duo"},
			PrincipalAttributeNameTrigger:  "memberOf",
			PrincipalAttributeValueToMatch: "admins",
		},
	}
	if event, _ := trigger.Resolve(context.Background(), wc); event != nil {
		t.Error("expected no opinion when the attribute gate does not match")
	}

	// same policy with a matching principal
	wc = authenticatedContext(map[string][]string{"memberOf": {"admins"}})
	wc.RegisteredService = &services.RegisteredService{
		MultifactorPolicy: services.MultifactorPolicy{
			ProviderIDs:                    []string{"mfa-duo"},
			PrincipalAttributeNameTrigger:  "memberOf",
			PrincipalAttributeValueToMatch: "admins",
		},
	}
	event, err = trigger.Resolve(context.Background(), wc)
	if err != nil {
		t.Fatal(err)
	}
	if event == nil || event.ID != "mfa-duo" {
		t.Fatalf("expected mfa-duo, got %v", event)
	}

	// no registered service, no opinion
	if event, _ := trigger.Resolve(context.Background(), authenticatedContext(nil)); event != nil {
		t.Error("expected no opinion without a registered service")
	}
}

func TestTriggerHonorsBypassRules(t *testing.T) {
	directory := mfa.NewDirectory(
		mfa.NewProvider("mfa-totp", 10).WithBypass(mfa.NewBypassEvaluator(&mfa.BypassOptions{
			PrincipalAttributeName: "mfaExempt",
		})),
	)
	trigger := NewGlobalTrigger(directory, "mfa-totp")

	// exempted principal is bypassed
	wc := authenticatedContext(map[string][]string{"mfaExempt": {"true"}})
	if event, _ := trigger.Resolve(context.Background(), wc); event != nil {
		t.Error("expected bypass for the exempted principal")
	}

	// ordinary principal is challenged
	wc = authenticatedContext(nil)
	event, err := trigger.Resolve(context.Background(), wc)
	if err != nil {
		t.Fatal(err)
	}
	if event == nil || event.ID != "mfa-totp" {
		t.Fatalf("expected mfa-totp, got %v", event)
	}

	// service-level bypassEnabled skips the evaluation entirely
	wc = authenticatedContext(map[string][]string{"mfaExempt": {"true"}})
	wc.RegisteredService = &services.RegisteredService{
		MultifactorPolicy: services.MultifactorPolicy{BypassEnabled: true},
	}
	event, err = trigger.Resolve(context.Background(), wc)
	if err != nil {
		t.Fatal(err)
	}
	if event == nil || event.ID != "mfa-totp" {
		t.Fatalf("expected the bypass rules to be ignored, got %v", event)
	}
}

func TestAdaptiveTrigger(t *testing.T) {
	trigger := NewAdaptiveTrigger(testDirectory(), &AdaptiveOptions{
		RemoteAddrPatterns: map[string]string{`^10\.0\.`: "mfa-totp"},
		UserAgentPatterns:  map[string]string{"(?i)curl": "mfa-duo"},
	})

	wc := authenticatedContext(nil)
	wc.RemoteAddr = "10.0.12.7"
	event, err := trigger.Resolve(context.Background(), wc)
	if err != nil {
		t.Fatal(err)
	}
	if event == nil || event.ID != "mfa-totp" {
		t.Fatalf("expected mfa-totp for the matching network, got %v", event)
	}

	wc = authenticatedContext(nil)
	wc.RemoteAddr = "192.168.1.10"
	wc.UserAgent = "curl/8.0"
	event, err = trigger.Resolve(context.Background(), wc)
	if err != nil {
		t.Fatal(err)
	}
	if event == nil || event.ID != "mfa-duo" {
		t.Fatalf("expected mfa-duo for the matching user agent, got %v", event)
	}

	wc = authenticatedContext(nil)
	wc.RemoteAddr = "192.168.1.10"
	if event, _ := trigger.Resolve(context.Background(), wc); event != nil {
		t.Error("expected no opinion for an unmatched request")
	}
}

func TestTimedTrigger(t *testing.T) {
	trigger := NewTimedTrigger(testDirectory(), []TimeWindow{
		{OnOrAfterHour: 22, OnOrBeforeHour: 5, ProviderID: "mfa-totp"},
	})

	frozen := func(hour int) func() time.Time {
		return func() time.Time {
			return time.Date(2026, 9, 1, hour, 0, 0, 0, time.UTC)
		}
	}

	trigger.now = frozen(23)
	event, err := trigger.Resolve(context.Background(), authenticatedContext(nil))
	if err != nil {
		t.Fatal(err)
	}
	if event == nil || event.ID != "mfa-totp" {
		t.Fatalf("expected the off-hours factor, got %v", event)
	}

	trigger.now = frozen(3) // wrapped past midnight
	event, err = trigger.Resolve(context.Background(), authenticatedContext(nil))
	if err != nil {
		t.Fatal(err)
	}
	if event == nil || event.ID != "mfa-totp" {
		t.Fatalf("expected the window to wrap midnight, got %v", event)
	}

	trigger.now = frozen(12)
	if event, _ := trigger.Resolve(context.Background(), authenticatedContext(nil)); event != nil {
		t.Error("expected no opinion inside business hours")
	}
}

func TestScriptedTrigger(t *testing.T) {
	policy := `
package mfa

provider = "mfa-duo" {
	input.attributes.memberOf[_] == "admins"
}
`
	trigger := NewScriptedTrigger(testDirectory(), policy, "")

	wc := authenticatedContext(map[string][]string{"memberOf": {"admins"}})
	event, err := trigger.Resolve(context.Background(), wc)
	if err != nil {
		t.Fatal(err)
	}
	if event == nil || event.ID != "mfa-duo" {
		t.Fatalf("expected mfa-duo from the policy, got %v", event)
	}

	wc = authenticatedContext(map[string][]string{"memberOf": {"users"}})
	if event, _ := trigger.Resolve(context.Background(), wc); event != nil {
		t.Error("expected no opinion when the policy yields nothing")
	}

	// an empty policy never applies
	unconfigured := NewScriptedTrigger(testDirectory(), "", "")
	if event, _ := unconfigured.Resolve(context.Background(), authenticatedContext(nil)); event != nil {
		t.Error("expected no opinion from an unconfigured trigger")
	}
}

func TestNewTriggersAssembly(t *testing.T) {
	directory := testDirectory()

	// unconfigured options yield only the registered-service policies
	triggers := NewTriggers(directory, NewOptions())
	if len(triggers) != 2 {
		t.Fatalf("expected 2 always-on triggers, got %d", len(triggers))
	}

	triggers = NewTriggers(directory, &Options{
		GlobalProviderID:        "mfa-totp",
		RequestParameterEnabled: true,
		PrincipalAttributeNames: []string{"authnPreference"},
		TimeWindows:             []TimeWindow{{OnOrAfterHour: 22, OnOrBeforeHour: 5, ProviderID: "mfa-totp"}},
	})
	if len(triggers) != 6 {
		t.Fatalf("expected 6 triggers, got %d", len(triggers))
	}
}
