/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package registry

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"casflow.io/casflow/pkg/ticket"
)

const (
	TypeInMemory = "InMemory"
	TypeCache    = "Cache"
)

type Options struct {
	// Type selects the registry backend, InMemory or Cache. The Cache
	// backend persists into the configured cache client.
	Type string `json:"type" yaml:"type" mapstructure:"type"`

	// CipherEnabled turns on transparent ticket encryption at rest.
	CipherEnabled bool   `json:"cipherEnabled" yaml:"cipherEnabled" mapstructure:"cipherEnabled"`
	CipherSecret  string `json:"-" yaml:"cipherSecret" mapstructure:"cipherSecret"`
	CipherSalt    string `json:"-" yaml:"cipherSalt" mapstructure:"cipherSalt"`

	// Session (ticket-granting ticket) lifetime bounds.
	SessionMaxTimeToLive time.Duration `json:"sessionMaxTimeToLive" yaml:"sessionMaxTimeToLive" mapstructure:"sessionMaxTimeToLive"`

	// Service ticket consumption bounds.
	ServiceTicketTimeToLive   time.Duration `json:"serviceTicketTimeToLive" yaml:"serviceTicketTimeToLive" mapstructure:"serviceTicketTimeToLive"`
	ServiceTicketNumberOfUses int           `json:"serviceTicketNumberOfUses" yaml:"serviceTicketNumberOfUses" mapstructure:"serviceTicketNumberOfUses"`

	// Proxy-granting ticket lifetime.
	ProxyTicketTimeToLive time.Duration `json:"proxyTicketTimeToLive" yaml:"proxyTicketTimeToLive" mapstructure:"proxyTicketTimeToLive"`

	// CleanupInterval schedules the background sweep; zero disables it.
	CleanupInterval time.Duration `json:"cleanupInterval" yaml:"cleanupInterval" mapstructure:"cleanupInterval"`
}

func NewOptions() *Options {
	return &Options{
		Type:                      TypeInMemory,
		SessionMaxTimeToLive:      8 * time.Hour,
		ServiceTicketTimeToLive:   10 * time.Second,
		ServiceTicketNumberOfUses: 1,
		ProxyTicketTimeToLive:     time.Hour,
		CleanupInterval:           time.Minute,
	}
}

func (o *Options) Validate() []error {
	errs := make([]error, 0)
	if o.Type != TypeInMemory && o.Type != TypeCache {
		errs = append(errs, fmt.Errorf("ticket registry type %s is not supported", o.Type))
	}
	if o.CipherEnabled && o.CipherSecret == "" {
		errs = append(errs, fmt.Errorf("ticket cipher is enabled but no secret is configured"))
	}
	if o.ServiceTicketNumberOfUses < 1 {
		errs = append(errs, fmt.Errorf("service tickets must allow at least one use"))
	}
	return errs
}

func (o *Options) AddFlags(fs *pflag.FlagSet, s *Options) {
	fs.StringVar(&o.Type, "ticket-registry-type", s.Type,
		"Ticket registry backend, one of InMemory, Cache.")
	fs.BoolVar(&o.CipherEnabled, "ticket-cipher-enabled", s.CipherEnabled,
		"Encrypt tickets at rest. Requires ticket-cipher-secret.")
	fs.StringVar(&o.CipherSecret, "ticket-cipher-secret", s.CipherSecret, "")
	fs.StringVar(&o.CipherSalt, "ticket-cipher-salt", s.CipherSalt, "")
	fs.DurationVar(&o.SessionMaxTimeToLive, "session-max-time-to-live", s.SessionMaxTimeToLive,
		"Hard upper bound on single sign-on session lifetime.")
	fs.DurationVar(&o.ServiceTicketTimeToLive, "service-ticket-time-to-live", s.ServiceTicketTimeToLive,
		"How long a service ticket stays valid before consumption.")
	fs.IntVar(&o.ServiceTicketNumberOfUses, "service-ticket-number-of-uses", s.ServiceTicketNumberOfUses,
		"How often a service ticket may be used; the protocol default is once.")
	fs.DurationVar(&o.ProxyTicketTimeToLive, "proxy-ticket-time-to-live", s.ProxyTicketTimeToLive, "")
	fs.DurationVar(&o.CleanupInterval, "ticket-cleanup-interval", s.CleanupInterval,
		"How often the expired-ticket sweep runs; 0 disables it.")
}

// SessionPolicy derives the ticket-granting ticket expiration policy.
func (o *Options) SessionPolicy() ticket.ExpirationPolicy {
	return ticket.HardTimeoutPolicy(o.SessionMaxTimeToLive)
}

// ServiceTicketPolicy derives the service ticket expiration policy.
func (o *Options) ServiceTicketPolicy() ticket.ExpirationPolicy {
	return ticket.MultiUsePolicy(o.ServiceTicketNumberOfUses, o.ServiceTicketTimeToLive)
}

// ProxyTicketPolicy derives the proxy-granting ticket expiration policy.
func (o *Options) ProxyTicketPolicy() ticket.ExpirationPolicy {
	return ticket.HardTimeoutPolicy(o.ProxyTicketTimeToLive)
}
