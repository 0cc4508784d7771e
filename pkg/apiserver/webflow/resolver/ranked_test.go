/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package resolver

import (
	"context"
	"testing"
	"time"

	"casflow.io/casflow/pkg/apiserver/authentication"
	"casflow.io/casflow/pkg/apiserver/webflow"
)

func sessionAuthentication(satisfied ...string) *authentication.Authentication {
	return &authentication.Authentication{
		Principal:          authentication.NewPrincipal("casuser"),
		AuthenticationTime: time.Now(),
		Attributes: map[string][]string{
			authentication.AttributeSatisfiedMFAProviders: satisfied,
		},
	}
}

func newTestRanked(requested string, satisfied ...string) (*RankedResolver, *webflow.Context) {
	directory := testDirectory()
	var triggers []TriggerResolver
	if requested != "" {
		triggers = append(triggers, &staticTrigger{id: requested})
	}
	delegating := newTestDelegating(directory, triggers...)

	ticketSupport := &fakeTicketSupport{
		tgtID: "TGT-1",
		authn: sessionAuthentication(satisfied...),
	}
	ranked := NewRankedResolver(delegating, ticketSupport, directory)

	wc := webflow.NewContext()
	wc.Service = authentication.NewService("https://app.example.org")
	wc.TicketGrantingTicketID = "TGT-1"
	wc.RegisterTransitions("mfa-totp", "mfa-duo", "mfa-webauthn")
	return ranked, wc
}

func TestRankedResumesWithoutServiceOrSession(t *testing.T) {
	ranked, _ := newTestRanked("")

	wc := webflow.NewContext()
	event, err := ranked.Resolve(context.Background(), wc)
	if err != nil {
		t.Fatal(err)
	}
	if event.ID != webflow.EventSuccess {
		t.Errorf("nothing to rank must resume the flow, got %s", event.ID)
	}

	wc = webflow.NewContext()
	wc.Service = authentication.NewService("https://app.example.org")
	wc.TicketGrantingTicketID = "TGT-unknown"
	event, err = ranked.Resolve(context.Background(), wc)
	if err != nil {
		t.Fatal(err)
	}
	if event.ID != webflow.EventSuccess {
		t.Errorf("unloadable session must resume the flow, got %s", event.ID)
	}
}

func TestRankedTerminalPassthrough(t *testing.T) {
	// no trigger demands a provider, delegating resolves plain success
	ranked, wc := newTestRanked("")

	event, err := ranked.Resolve(context.Background(), wc)
	if err != nil {
		t.Fatal(err)
	}
	if event.ID != webflow.EventSuccess {
		t.Errorf("terminal events pass through unranked, got %s", event.ID)
	}
}

func TestRankedSubsumption(t *testing.T) {
	testCases := []struct {
		description string
		requested   string
		satisfied   []string
		expected    string
	}{
		{
			description: "exact provider already satisfied",
			requested:   "mfa-totp",
			satisfied:   []string{"mfa-totp"},
			expected:    webflow.EventSuccess,
		},
		{
			description: "stronger factor subsumes weaker request",
			requested:   "mfa-totp",
			satisfied:   []string{"mfa-duo"},
			expected:    webflow.EventSuccess,
		},
		{
			description: "weaker factor does not subsume stronger request",
			requested:   "mfa-duo",
			satisfied:   []string{"mfa-totp"},
			expected:    "mfa-duo",
		},
		{
			description: "nothing satisfied, step up required",
			requested:   "mfa-totp",
			satisfied:   nil,
			expected:    "mfa-totp",
		},
		{
			description: "unknown satisfied provider is ignored",
			requested:   "mfa-duo",
			satisfied:   []string{"mfa-decommissioned"},
			expected:    "mfa-duo",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			ranked, wc := newTestRanked(testCase.requested, testCase.satisfied...)

			event, err := ranked.Resolve(context.Background(), wc)
			if err != nil {
				t.Fatal(err)
			}
			if event.ID != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, event.ID)
			}
			if !event.IsTerminal() {
				// step-up challenges carry the downstream context
				if event.Attributes.Provider == nil || event.Attributes.Provider.ID() != testCase.requested {
					t.Error("challenge event must carry the requested provider")
				}
				if event.Attributes.Principal == nil {
					t.Error("challenge event must carry the principal")
				}
			}
		})
	}
}
