/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package authentication

import (
	"context"
	"crypto/subtle"
)

// StaticHandler authenticates against a fixed username/password map with
// optional static principal attributes. Meant for bootstrap and testing,
// mirroring the accept-users facility of classic SSO deployments.
type StaticHandler struct {
	// Users maps username to plain password.
	Users map[string]string
	// Attributes are released for every user this handler accepts.
	Attributes map[string]map[string][]string
}

func (h *StaticHandler) Name() string {
	return "StaticCredentialsHandler"
}

func (h *StaticHandler) Supports(credential Credential) bool {
	_, ok := credential.(*UsernamePasswordCredential)
	if !ok {
		_, ok = credential.(*RememberMeCredential)
	}
	return ok
}

func (h *StaticHandler) Authenticate(ctx context.Context, credential Credential) (*HandlerResult, error) {
	var username, password string
	switch c := credential.(type) {
	case *UsernamePasswordCredential:
		username, password = c.Username, c.Password
	case *RememberMeCredential:
		username, password = c.Username, c.Password
	default:
		return nil, NewError(CodeBadCredentials, "unsupported credential type %s", credential.Type())
	}

	expected, ok := h.Users[username]
	if !ok || subtle.ConstantTimeCompare([]byte(expected), []byte(password)) != 1 {
		return nil, NewError(CodeBadCredentials, "invalid credentials for %s", username)
	}

	principal := NewPrincipal(username)
	if attrs, ok := h.Attributes[username]; ok {
		for name, values := range attrs {
			principal.WithAttribute(name, values...)
		}
	}
	return &HandlerResult{HandlerName: h.Name(), Principal: principal}, nil
}
