/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package authentication

import (
	"time"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Well-known authentication attributes.
const (
	// AttributeAuthenticationMethod records the method names of the
	// handlers that vouched for this authentication.
	AttributeAuthenticationMethod = "authenticationMethod"
	// AttributeSuccessfulHandlers records the names of handlers that
	// succeeded during the transaction.
	AttributeSuccessfulHandlers = "successfulAuthenticationHandlers"
	// AttributeSatisfiedMFAProviders records the ids of multifactor
	// providers already satisfied within this single sign-on session.
	AttributeSatisfiedMFAProviders = "authnContextClass"
	// AttributeRememberMe marks a long lived remember-me session.
	AttributeRememberMe = "longTermAuthenticationRequestTokenUsed"
)

// HandlerResult is the per-handler outcome recorded on an Authentication.
type HandlerResult struct {
	HandlerName string     `json:"handlerName"`
	Principal   *Principal `json:"principal,omitempty"`
	Warnings    []string   `json:"warnings,omitempty"`
}

// Authentication is the immutable record of a completed authentication
// transaction: the resolved principal plus per-handler successes, failures
// and warnings.
type Authentication struct {
	Principal          *Principal               `json:"principal"`
	AuthenticationTime time.Time                `json:"authenticationTime"`
	Attributes         map[string][]string      `json:"attributes,omitempty"`
	Successes          map[string]HandlerResult `json:"successes,omitempty"`
	Failures           map[string]string        `json:"failures,omitempty"`
	Warnings           []string                 `json:"warnings,omitempty"`
}

// Attribute returns the first value of the named authentication attribute.
func (a *Authentication) Attribute(name string) string {
	if values := a.Attributes[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// SatisfiedProviders returns the ids of MFA providers this authentication
// has already fulfilled.
func (a *Authentication) SatisfiedProviders() []string {
	return a.Attributes[AttributeSatisfiedMFAProviders]
}

// Builder accumulates the state of an in-flight authentication transaction
// before it is finalized into an Authentication.
type Builder struct {
	principal  *Principal
	attributes map[string][]string
	successes  map[string]HandlerResult
	failures   map[string]string
	warnings   []string
	initial    *Authentication
}

func NewBuilder() *Builder {
	return &Builder{
		attributes: map[string][]string{},
		successes:  map[string]HandlerResult{},
		failures:   map[string]string{},
	}
}

// NewBuilderFrom seeds a builder with an already established authentication,
// used when an existing single sign-on session participates in a new
// transaction.
func NewBuilderFrom(authn *Authentication) *Builder {
	b := NewBuilder()
	b.initial = authn
	if authn != nil {
		b.principal = authn.Principal
		for k, v := range authn.Attributes {
			b.attributes[k] = append([]string(nil), v...)
		}
		for k, v := range authn.Successes {
			b.successes[k] = v
		}
	}
	return b
}

func (b *Builder) SetPrincipal(p *Principal) *Builder {
	b.principal = p
	return b
}

func (b *Builder) AddSuccess(result HandlerResult) *Builder {
	b.successes[result.HandlerName] = result
	b.mergeAttribute(AttributeSuccessfulHandlers, result.HandlerName)
	b.warnings = append(b.warnings, result.Warnings...)
	return b
}

func (b *Builder) AddFailure(handlerName string, err error) *Builder {
	b.failures[handlerName] = err.Error()
	return b
}

func (b *Builder) AddAttribute(name string, values ...string) *Builder {
	for _, v := range values {
		b.mergeAttribute(name, v)
	}
	return b
}

func (b *Builder) mergeAttribute(name, value string) {
	existing := sets.NewString(b.attributes[name]...)
	if !existing.Has(value) {
		b.attributes[name] = append(b.attributes[name], value)
	}
}

// InitialAuthentication reports the authentication this transaction started
// from, nil for a fresh credential-based transaction before Build.
func (b *Builder) InitialAuthentication() *Authentication {
	return b.initial
}

// HasInitialAuthentication reports whether the primary factor already
// succeeded in this transaction.
func (b *Builder) HasInitialAuthentication() bool {
	return b.initial != nil
}

func (b *Builder) Build() *Authentication {
	authn := &Authentication{
		Principal:          b.principal,
		AuthenticationTime: time.Now(),
		Attributes:         b.attributes,
		Successes:          b.successes,
		Failures:           b.failures,
		Warnings:           b.warnings,
	}
	b.initial = authn
	return authn
}

// Result is the finalized outcome of an authentication transaction bound to
// the service it was performed for.
type Result struct {
	Authentication *Authentication `json:"authentication"`
	Service        *Service        `json:"service,omitempty"`
}
