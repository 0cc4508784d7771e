/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package mfa

import (
	"strings"

	"casflow.io/casflow/pkg/apiserver/authentication"
	"casflow.io/casflow/pkg/services"
)

// FailureMode decides what happens when a provider cannot be reached.
type FailureMode string

const (
	// FailureModeClosed fails the authentication hard.
	FailureModeClosed FailureMode = "CLOSED"
	// FailureModeOpen proceeds without the factor.
	FailureModeOpen FailureMode = "OPEN"
	// FailureModeNone assumes the provider is available.
	FailureModeNone FailureMode = "NONE"
)

func ParseFailureMode(s string) FailureMode {
	switch strings.ToUpper(s) {
	case string(FailureModeClosed):
		return FailureModeClosed
	case string(FailureModeOpen):
		return FailureModeOpen
	default:
		return FailureModeNone
	}
}

// Provider is one configured multifactor mechanism. The id doubles as the
// webflow transition/event name that routes the user into its challenge.
type Provider interface {
	// ID is the stable provider identifier, e.g. "mfa-totp".
	ID() string
	// Order ranks providers for arbitration; see PreferLowestOrder.
	Order() int
	// FailureMode is the provider-level failure mode, possibly overridden
	// per service.
	FailureMode() FailureMode
	// Bypass returns the provider's bypass evaluator.
	Bypass() *BypassEvaluator
	// IsAvailable probes the provider, applying the effective failure
	// mode for the given service. A returned error escalates to an
	// authentication failure (CLOSED mode).
	IsAvailable(service *services.RegisteredService) (bool, error)
	// Matches compares providers by identity (order, id).
	Matches(other Provider) bool
}

// Ping probes a provider backend; nil error means reachable.
type Ping func() error

// BaseProvider is the canonical Provider implementation; concrete
// mechanisms configure it or embed it.
type BaseProvider struct {
	id          string
	order       int
	failureMode FailureMode
	bypass      *BypassEvaluator
	ping        Ping
}

func NewProvider(id string, order int) *BaseProvider {
	return &BaseProvider{
		id:          id,
		order:       order,
		failureMode: FailureModeNone,
		bypass:      NewBypassEvaluator(&BypassOptions{}),
	}
}

func (p *BaseProvider) WithFailureMode(mode FailureMode) *BaseProvider {
	p.failureMode = mode
	return p
}

func (p *BaseProvider) WithBypass(bypass *BypassEvaluator) *BaseProvider {
	p.bypass = bypass
	return p
}

// WithPing installs the availability probe used by non-NONE failure modes.
func (p *BaseProvider) WithPing(ping Ping) *BaseProvider {
	p.ping = ping
	return p
}

func (p *BaseProvider) ID() string {
	return p.id
}

func (p *BaseProvider) Order() int {
	return p.order
}

func (p *BaseProvider) FailureMode() FailureMode {
	return p.failureMode
}

func (p *BaseProvider) Bypass() *BypassEvaluator {
	return p.bypass
}

func (p *BaseProvider) Matches(other Provider) bool {
	return other != nil && p.id == other.ID() && p.order == other.Order()
}

func (p *BaseProvider) IsAvailable(service *services.RegisteredService) (bool, error) {
	mode := p.failureMode
	if service != nil && service.MultifactorPolicy.FailureMode != "" {
		mode = ParseFailureMode(service.MultifactorPolicy.FailureMode)
	}

	if mode == FailureModeNone || p.ping == nil {
		return true, nil
	}

	err := p.ping()
	if err == nil {
		return true, nil
	}

	if mode == FailureModeClosed {
		return false, authentication.NewError(authentication.CodeProviderUnavailable,
			"multifactor provider %s is unreachable: %v", p.id, err)
	}
	// OPEN: skip the factor silently
	return false, nil
}
