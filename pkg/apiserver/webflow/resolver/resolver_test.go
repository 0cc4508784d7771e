/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package resolver

import (
	"context"

	"casflow.io/casflow/pkg/apiserver/authentication"
	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/apiserver/webflow"
	"casflow.io/casflow/pkg/services"
)

// staticTrigger emits a fixed event id, standing in for a configured
// trigger policy.
type staticTrigger struct {
	id  string
	err error
}

func (t *staticTrigger) Name() string {
	return "static"
}

func (t *staticTrigger) Resolve(_ context.Context, _ *webflow.Context) (*webflow.Event, error) {
	if t.err != nil {
		return nil, t.err
	}
	if t.id == "" {
		return nil, nil
	}
	return webflow.NewEvent(t.id), nil
}

// fakeTicketSupport resolves a fixed authentication for one ticket id.
type fakeTicketSupport struct {
	tgtID string
	authn *authentication.Authentication
}

func (s *fakeTicketSupport) AuthenticationFrom(tgtID string) (*authentication.Authentication, error) {
	if tgtID == s.tgtID {
		return s.authn, nil
	}
	return nil, nil
}

func testDirectory() *mfa.Directory {
	return mfa.NewDirectory(
		mfa.NewProvider("mfa-totp", 10),
		mfa.NewProvider("mfa-duo", 20),
		mfa.NewProvider("mfa-webauthn", 30),
	)
}

func testManager() services.Manager {
	return services.NewInMemoryManager(&services.RegisteredService{
		ID:        1,
		Name:      "test app",
		ServiceID: `https://app\.example\.org`,
		AccessStrategy: services.AccessStrategy{
			Enabled:    true,
			SSOEnabled: true,
		},
		AttributeReleasePolicy: services.AttributeReleasePolicy{Type: services.ReleaseReturnAll},
	})
}

func newTestDelegating(directory *mfa.Directory, triggers ...TriggerResolver) *DelegatingResolver {
	support := authentication.NewSystemSupport(&authentication.StaticHandler{
		Users: map[string]string{"casuser": "Mellon"},
	})
	return NewDelegatingResolver(support, testManager(), services.NewAccessEnforcer(),
		NewSelectiveResolver(directory), triggers...)
}

func newLoginContext() *webflow.Context {
	wc := webflow.NewContext()
	wc.Service = authentication.NewService("https://app.example.org")
	wc.Credential = &authentication.UsernamePasswordCredential{Username: "casuser", Password: "Mellon"}
	wc.RegisterTransitions("mfa-totp", "mfa-duo", "mfa-webauthn")
	return wc
}
