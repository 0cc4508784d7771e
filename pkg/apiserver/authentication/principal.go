/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package authentication

// Principal is the resolved identity of an authenticated subject together
// with the attributes released by the attribute repositories.
type Principal struct {
	ID         string              `json:"id"`
	Attributes map[string][]string `json:"attributes,omitempty"`
}

func NewPrincipal(id string) *Principal {
	return &Principal{ID: id, Attributes: map[string][]string{}}
}

func (p *Principal) WithAttribute(name string, values ...string) *Principal {
	if p.Attributes == nil {
		p.Attributes = map[string][]string{}
	}
	p.Attributes[name] = values
	return p
}

// Attribute returns the first value of the named attribute, or "".
func (p *Principal) Attribute(name string) string {
	if values := p.Attributes[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Service identifies the relying party an authentication request targets.
type Service struct {
	ID          string `json:"id"`
	OriginalURL string `json:"originalUrl,omitempty"`
}

func NewService(id string) *Service {
	return &Service{ID: id, OriginalURL: id}
}
