/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package registry

import (
	"testing"
	"time"

	"casflow.io/casflow/pkg/apiserver/authentication"
	"casflow.io/casflow/pkg/ticket"
)

func newTestSupport() *Support {
	return NewSupport(NewInMemoryRegistry(nil),
		ticket.HardTimeoutPolicy(8*time.Hour),
		ticket.MultiUsePolicy(1, 10*time.Second),
		ticket.HardTimeoutPolicy(time.Hour))
}

func newAuthentication(principal string) *authentication.Authentication {
	return &authentication.Authentication{
		Principal:          authentication.NewPrincipal(principal),
		AuthenticationTime: time.Now(),
	}
}

func TestGrantAndLookupSession(t *testing.T) {
	support := newTestSupport()

	tgt, err := support.GrantTicketGrantingTicket(newAuthentication("casuser"))
	if err != nil {
		t.Fatal(err)
	}

	authn, err := support.AuthenticationFrom(tgt.ID())
	if err != nil {
		t.Fatal(err)
	}
	if authn == nil || authn.Principal.ID != "casuser" {
		t.Fatalf("expected casuser's authentication, got %v", authn)
	}

	if authn, _ := support.AuthenticationFrom(""); authn != nil {
		t.Error("empty ticket id must resolve to nil")
	}
	if authn, _ := support.AuthenticationFrom("TGT-missing"); authn != nil {
		t.Error("unknown ticket id must resolve to nil")
	}
}

func TestValidateServiceTicket(t *testing.T) {
	support := newTestSupport()
	service := authentication.NewService("https://app.example.org")

	tgt, err := support.GrantTicketGrantingTicket(newAuthentication("casuser"))
	if err != nil {
		t.Fatal(err)
	}
	st, err := support.GrantServiceTicket(tgt.ID(), service, false)
	if err != nil {
		t.Fatal(err)
	}

	validated, authn, err := support.ValidateServiceTicket(st.ID(), service)
	if err != nil {
		t.Fatal(err)
	}
	if !validated.Validated {
		t.Error("ticket must be marked validated")
	}
	if authn.Principal.ID != "casuser" {
		t.Errorf("expected casuser, got %s", authn.Principal.ID)
	}

	// one-time use: the consumed ticket is gone
	_, _, err = support.ValidateServiceTicket(st.ID(), service)
	if err == nil {
		t.Fatal("second validation must fail")
	}
	if !ticket.IsTicketError(err) {
		t.Errorf("expected a ticket error, got %v", err)
	}
}

func TestValidateServiceTicketServiceMismatch(t *testing.T) {
	support := newTestSupport()

	tgt, err := support.GrantTicketGrantingTicket(newAuthentication("casuser"))
	if err != nil {
		t.Fatal(err)
	}
	st, err := support.GrantServiceTicket(tgt.ID(), authentication.NewService("https://app.example.org"), false)
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = support.ValidateServiceTicket(st.ID(), authentication.NewService("https://evil.example.org"))
	if err == nil {
		t.Fatal("validation for a different service must fail")
	}
	if !ticket.IsTicketError(err) {
		t.Errorf("expected a ticket error, got %v", err)
	}
}

func TestGrantServiceTicketWithoutSession(t *testing.T) {
	support := newTestSupport()

	_, err := support.GrantServiceTicket("TGT-missing", authentication.NewService("https://app.example.org"), false)
	if err == nil {
		t.Fatal("granting from a missing session must fail")
	}
	if !ticket.IsTicketError(err) {
		t.Errorf("expected a ticket error, got %v", err)
	}
}

func TestProxyDelegationAndDestroy(t *testing.T) {
	support := newTestSupport()
	service := authentication.NewService("https://app.example.org")

	tgt, err := support.GrantTicketGrantingTicket(newAuthentication("casuser"))
	if err != nil {
		t.Fatal(err)
	}
	st, err := support.GrantServiceTicket(tgt.ID(), service, false)
	if err != nil {
		t.Fatal(err)
	}
	pgt, err := support.GrantProxyGrantingTicket(st.ID())
	if err != nil {
		t.Fatal(err)
	}
	if pgt.TicketGrantingTicketID != tgt.ID() {
		t.Error("proxy ticket must reference the session")
	}

	// destroying the session takes the whole family with it
	removed, err := support.Destroy(tgt.ID())
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("expected 3 tickets destroyed, got %d", removed)
	}
	if authn, _ := support.AuthenticationFrom(tgt.ID()); authn != nil {
		t.Error("session survived destroy")
	}
}
