/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package authentication

// Credential is an opaque proof of identity presented by the subject.
// Concrete handlers decide which credential types they support.
type Credential interface {
	// CredentialID identifies the subject claimed by this credential,
	// e.g. the username for a username/password pair.
	CredentialID() string
	// Type is a stable discriminator used by bypass rules matching on
	// the credential class.
	Type() string
}

type UsernamePasswordCredential struct {
	Username string `json:"username"`
	Password string `json:"-"`
}

func (c *UsernamePasswordCredential) CredentialID() string {
	return c.Username
}

func (c *UsernamePasswordCredential) Type() string {
	return "UsernamePasswordCredential"
}

// RememberMeCredential marks a long-lived session request; kept distinct so
// bypass rules can match on it.
type RememberMeCredential struct {
	UsernamePasswordCredential
	RememberMe bool `json:"rememberMe"`
}

func (c *RememberMeCredential) Type() string {
	return "RememberMeCredential"
}
