/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package authentication

import (
	"context"
	"testing"

	"k8s.io/apimachinery/pkg/util/sets"
)

func newStaticSupport() SystemSupport {
	return NewSystemSupport(&StaticHandler{
		Users: map[string]string{"casuser": "Mellon"},
		Attributes: map[string]map[string][]string{
			"casuser": {"memberOf": {"staff"}},
		},
	})
}

func TestHandleInitialAuthenticationTransaction(t *testing.T) {
	support := newStaticSupport()

	builder, err := support.HandleInitialAuthenticationTransaction(context.Background(), nil,
		&UsernamePasswordCredential{Username: "casuser", Password: "Mellon"})
	if err != nil {
		t.Fatal(err)
	}
	if !builder.HasInitialAuthentication() {
		t.Fatal("transaction must finalize the primary authentication")
	}

	authn := builder.InitialAuthentication()
	if authn.Principal == nil || authn.Principal.ID != "casuser" {
		t.Fatalf("unexpected principal %v", authn.Principal)
	}
	if got := authn.Principal.Attribute("memberOf"); got != "staff" {
		t.Errorf("static attributes must be released, got %q", got)
	}
	if _, ok := authn.Successes["StaticCredentialsHandler"]; !ok {
		t.Error("success must be recorded under the handler name")
	}
	handlers := sets.NewString(authn.Attributes[AttributeSuccessfulHandlers]...)
	if !handlers.Has("StaticCredentialsHandler") {
		t.Errorf("successful handlers attribute missing, got %v", authn.Attributes)
	}
}

func TestBadCredentialsFailTheTransaction(t *testing.T) {
	support := newStaticSupport()

	_, err := support.HandleInitialAuthenticationTransaction(context.Background(), nil,
		&UsernamePasswordCredential{Username: "casuser", Password: "wrong"})
	if err == nil {
		t.Fatal("expected the transaction to fail")
	}
	if !IsAuthenticationError(err) {
		t.Errorf("expected an authentication error, got %v", err)
	}

	_, err = support.HandleInitialAuthenticationTransaction(context.Background(), nil,
		&UsernamePasswordCredential{Username: "nobody", Password: "Mellon"})
	if err == nil {
		t.Error("unknown users must fail the transaction")
	}
}

func TestFinalizeAuthenticationTransaction(t *testing.T) {
	support := newStaticSupport()
	service := NewService("https://app.example.org")

	result, err := support.FinalizeAuthenticationTransaction(context.Background(), service,
		&UsernamePasswordCredential{Username: "casuser", Password: "Mellon"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Authentication == nil || result.Authentication.Principal.ID != "casuser" {
		t.Fatalf("unexpected result %v", result)
	}
	if result.Service != service {
		t.Error("result must carry the target service")
	}
}

func TestBuilderFromExistingAuthentication(t *testing.T) {
	existing := &Authentication{
		Principal: NewPrincipal("casuser"),
		Attributes: map[string][]string{
			AttributeSatisfiedMFAProviders: {"mfa-totp"},
		},
	}

	builder := NewBuilderFrom(existing)
	if !builder.HasInitialAuthentication() {
		t.Fatal("seeded builder must report an initial authentication")
	}

	builder.AddAttribute(AttributeSatisfiedMFAProviders, "mfa-duo", "mfa-totp")
	authn := builder.Build()
	if authn.Principal.ID != "casuser" {
		t.Errorf("principal must carry over, got %v", authn.Principal)
	}
	satisfied := sets.NewString(authn.SatisfiedProviders()...)
	if !satisfied.HasAll("mfa-totp", "mfa-duo") || satisfied.Len() != 2 {
		t.Errorf("attribute merge must deduplicate, got %v", authn.SatisfiedProviders())
	}

	// the source attributes must not be mutated through the copy
	if len(existing.Attributes[AttributeSatisfiedMFAProviders]) != 1 {
		t.Error("seeding must copy, not alias, the attributes")
	}
}

func TestStaticHandlerSupports(t *testing.T) {
	handler := &StaticHandler{Users: map[string]string{"casuser": "Mellon"}}
	if !handler.Supports(&UsernamePasswordCredential{}) {
		t.Error("username/password credentials must be supported")
	}
	if !handler.Supports(&RememberMeCredential{}) {
		t.Error("remember-me credentials must be supported")
	}
	if handler.Supports(nil) {
		t.Error("nil credentials must not be supported")
	}
}
