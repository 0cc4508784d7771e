/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package webflow

import (
	"fmt"

	"casflow.io/casflow/pkg/apiserver/authentication"
	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/services"
)

// Terminal protocol events. Any other event id names a multifactor
// provider requesting a step-up challenge.
const (
	EventSuccess               = "success"
	EventSuccessWithWarnings   = "successWithWarnings"
	EventAuthenticationFailure = "authenticationFailure"
	EventError                 = "error"
)

// Attributes carry the resolved context a transition target needs.
type Attributes struct {
	Principal         *authentication.Principal
	Service           *authentication.Service
	RegisteredService *services.RegisteredService
	Provider          mfa.Provider
	Builder           *authentication.Builder
	Error             error
	Values            map[string]interface{}
}

// Event is the resolved outcome of the decision pipeline, driving the next
// protocol state transition.
type Event struct {
	ID         string
	Attributes Attributes
}

func NewEvent(id string) *Event {
	return &Event{ID: id}
}

func (e *Event) String() string {
	return fmt.Sprintf("event[%s]", e.ID)
}

// IsTerminal reports whether the event is a protocol outcome rather than a
// provider challenge request.
func (e *Event) IsTerminal() bool {
	switch e.ID {
	case EventSuccess, EventSuccessWithWarnings, EventAuthenticationFailure, EventError:
		return true
	}
	return false
}

func (e *Event) WithPrincipal(p *authentication.Principal) *Event {
	e.Attributes.Principal = p
	return e
}

func (e *Event) WithService(s *authentication.Service) *Event {
	e.Attributes.Service = s
	return e
}

func (e *Event) WithRegisteredService(rs *services.RegisteredService) *Event {
	e.Attributes.RegisteredService = rs
	return e
}

func (e *Event) WithProvider(p mfa.Provider) *Event {
	e.Attributes.Provider = p
	return e
}

func (e *Event) WithBuilder(b *authentication.Builder) *Event {
	e.Attributes.Builder = b
	return e
}

func (e *Event) WithError(err error) *Event {
	e.Attributes.Error = err
	return e
}
