/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package apiserver

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/apiserver/authentication"
	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/apiserver/webflow/resolver"
	"casflow.io/casflow/pkg/apiserver/webflow/resolver/trigger"
	"casflow.io/casflow/pkg/config"
	"casflow.io/casflow/pkg/crypto"
	"casflow.io/casflow/pkg/services"
	"casflow.io/casflow/pkg/simple/client/cache"
	"casflow.io/casflow/pkg/ticket/registry"
	"casflow.io/casflow/pkg/ticket/token"
)

// SSOServer is the assembled single sign-on core: the authentication
// system, the ticket registry with its cleaner, the multifactor provider
// directory and the event resolution pipeline. The protocol rendering
// layer on top of it is a separate concern.
type SSOServer struct {
	Config *config.Config

	SystemSupport  authentication.SystemSupport
	TicketSupport  *registry.Support
	Registry       registry.Registry
	ServiceManager services.Manager
	Directory      *mfa.Directory
	TokenIssuer    token.Issuer

	Delegating *resolver.DelegatingResolver
	Ranked     *resolver.RankedResolver

	cleaner registry.Cleaner
}

// New wires every component from configuration. The stop channel bounds
// the lifetime of background workers started by component factories.
func New(conf *config.Config, stopCh <-chan struct{}) (*SSOServer, error) {
	cacheClient, err := cache.New(conf.CacheOptions, stopCh)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache client: %v", err)
	}

	cipher := crypto.NewNoOpCipher()
	if conf.TicketOptions.CipherEnabled {
		cipher, err = crypto.NewAESGCMCipher(conf.TicketOptions.CipherSecret, conf.TicketOptions.CipherSalt)
		if err != nil {
			return nil, fmt.Errorf("failed to create ticket cipher: %v", err)
		}
	}

	var reg registry.Registry
	switch conf.TicketOptions.Type {
	case registry.TypeCache:
		reg = registry.NewCacheRegistry(cacheClient, cipher)
	default:
		reg = registry.NewInMemoryRegistry(cipher)
	}

	ticketSupport := registry.NewSupport(reg,
		conf.TicketOptions.SessionPolicy(),
		conf.TicketOptions.ServiceTicketPolicy(),
		conf.TicketOptions.ProxyTicketPolicy())

	systemSupport := authentication.NewSystemSupport(&authentication.StaticHandler{
		Users:      conf.AuthenticationOptions.StaticUsers,
		Attributes: conf.AuthenticationOptions.StaticAttributes,
	})

	manager := services.NewInMemoryManager(conf.RegisteredServices...)
	directory := mfa.NewDirectoryFromOptions(conf.MultifactorProviders)

	selective := resolver.NewSelectiveResolver(directory)
	delegating := resolver.NewDelegatingResolver(
		systemSupport,
		manager,
		services.NewAccessEnforcer(),
		selective,
		trigger.NewTriggers(directory, conf.TriggerOptions)...,
	)
	ranked := resolver.NewRankedResolver(delegating, ticketSupport, directory)

	return &SSOServer{
		Config:         conf,
		SystemSupport:  systemSupport,
		TicketSupport:  ticketSupport,
		Registry:       reg,
		ServiceManager: manager,
		Directory:      directory,
		TokenIssuer: token.NewIssuer(conf.AuthenticationOptions.JWTSecret,
			conf.AuthenticationOptions.MaximumClockSkew),
		Delegating: delegating,
		Ranked:     ranked,
		cleaner:    registry.NewCleaner(reg, nil),
	}, nil
}

// Assertion is the outcome of a successful service ticket validation,
// shaped by the registered service's attribute release policy.
type Assertion struct {
	Principal  *authentication.Principal `json:"principal"`
	Attributes map[string][]string       `json:"attributes,omitempty"`

	// Token carries the signed rendering of the assertion for services
	// that opt into JWTs instead of opaque tickets.
	Token string `json:"token,omitempty"`
}

// ValidateServiceTicket consumes a service ticket on behalf of the given
// service and builds the released assertion.
func (s *SSOServer) ValidateServiceTicket(stID string, service *authentication.Service) (*Assertion, error) {
	st, authn, err := s.TicketSupport.ValidateServiceTicket(stID, service)
	if err != nil {
		return nil, err
	}

	rs := s.ServiceManager.FindServiceBy(service)
	assertion := &Assertion{Principal: authn.Principal}
	if rs != nil {
		assertion.Attributes = rs.AttributeReleasePolicy.ReleaseAttributes(authn.Principal)
		if rs.Property(services.PropertyJWTAsServiceTicket) != "" {
			tokenString, err := s.TokenIssuer.IssueTo(st, authn, s.Config.AuthenticationOptions.TokenExpiration)
			if err != nil {
				return nil, err
			}
			assertion.Token = tokenString
		}
	}
	return assertion, nil
}

// Run schedules the expired-ticket sweep and blocks until stop.
func (s *SSOServer) Run(stopCh <-chan struct{}) error {
	interval := s.Config.TicketOptions.CleanupInterval
	if interval <= 0 {
		klog.Info("ticket cleanup is disabled")
		<-stopCh
		return nil
	}

	klog.Infof("starting ticket cleanup every %s", interval)
	wait.Until(func() {
		if removed := s.cleaner.Clean(); removed > 0 {
			klog.V(2).Infof("removed %d expired tickets", removed)
		}
	}, interval, stopCh)
	return nil
}
