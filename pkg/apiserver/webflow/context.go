/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package webflow

import (
	"k8s.io/apimachinery/pkg/util/sets"

	"casflow.io/casflow/pkg/apiserver/authentication"
	"casflow.io/casflow/pkg/services"
)

// Context is the typed request-scoped state threaded through the resolver
// pipeline. One instance per inbound request; never shared across requests,
// so no locking is needed within it.
type Context struct {
	// Request metadata.
	RemoteAddr string
	UserAgent  string
	Parameters map[string]string
	Headers    map[string]string

	// Protocol inputs.
	Service                *authentication.Service
	Credential             authentication.Credential
	TicketGrantingTicketID string

	// Resolved during the pipeline.
	RegisteredService *services.RegisteredService
	Authentication    *authentication.Authentication
	Builder           *authentication.Builder
	ResolvedEvents    []*Event

	// HTTPStatus is set by the pipeline on terminal failures; the web
	// layer renders it.
	HTTPStatus int

	transitions sets.String
}

func NewContext() *Context {
	return &Context{
		Parameters:  map[string]string{},
		Headers:     map[string]string{},
		transitions: sets.NewString(EventSuccess, EventSuccessWithWarnings, EventAuthenticationFailure, EventError),
	}
}

// RegisterTransitions declares the transition ids the current flow
// supports; resolved provider events must name one of them.
func (c *Context) RegisterTransitions(ids ...string) {
	c.transitions.Insert(ids...)
}

func (c *Context) HasTransition(id string) bool {
	return c.transitions.Has(id)
}

// Parameter returns the named request parameter, or "".
func (c *Context) Parameter(name string) string {
	return c.Parameters[name]
}

// RecordEvent appends a resolved candidate event for diagnostics.
func (c *Context) RecordEvent(e *Event) {
	c.ResolvedEvents = append(c.ResolvedEvents, e)
}
