/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package authentication

import (
	"context"

	"k8s.io/klog/v2"
)

// Handler authenticates one kind of credential. Concrete mechanisms
// (password stores, directories, external IdPs) plug in through this
// interface and are otherwise opaque to the core.
type Handler interface {
	// Name is the stable handler name recorded on successes/failures.
	Name() string
	// Supports reports whether this handler can process the credential.
	Supports(credential Credential) bool
	// Authenticate validates the credential and resolves its principal.
	Authenticate(ctx context.Context, credential Credential) (*HandlerResult, error)
}

type defaultSystemSupport struct {
	handlers []Handler
}

// NewSystemSupport assembles the default SystemSupport over the registered
// handlers. At least one handler must succeed per transaction.
func NewSystemSupport(handlers ...Handler) SystemSupport {
	return &defaultSystemSupport{handlers: handlers}
}

func (s *defaultSystemSupport) HandleInitialAuthenticationTransaction(ctx context.Context, service *Service, credentials ...Credential) (*Builder, error) {
	builder := NewBuilder()
	if _, err := s.authenticate(ctx, builder, credentials...); err != nil {
		return nil, err
	}
	builder.Build()
	return builder, nil
}

func (s *defaultSystemSupport) HandleAuthenticationTransaction(ctx context.Context, service *Service, builder *Builder, credentials ...Credential) (*Builder, error) {
	if _, err := s.authenticate(ctx, builder, credentials...); err != nil {
		return nil, err
	}
	builder.Build()
	return builder, nil
}

func (s *defaultSystemSupport) EstablishAuthenticationContextFromInitial(authn *Authentication, credential Credential) (*Builder, error) {
	return NewBuilderFrom(authn), nil
}

func (s *defaultSystemSupport) FinalizeAuthenticationTransaction(ctx context.Context, service *Service, credentials ...Credential) (*Result, error) {
	builder, err := s.HandleInitialAuthenticationTransaction(ctx, service, credentials...)
	if err != nil {
		return nil, err
	}
	return &Result{Authentication: builder.InitialAuthentication(), Service: service}, nil
}

func (s *defaultSystemSupport) authenticate(ctx context.Context, builder *Builder, credentials ...Credential) (*Principal, error) {
	var principal *Principal
	succeeded := false

	for _, credential := range credentials {
		supported := false
		for _, handler := range s.handlers {
			if !handler.Supports(credential) {
				continue
			}
			supported = true
			result, err := handler.Authenticate(ctx, credential)
			if err != nil {
				klog.V(4).Infof("handler %s rejected credential for %s: %v", handler.Name(), credential.CredentialID(), err)
				builder.AddFailure(handler.Name(), err)
				continue
			}
			succeeded = true
			builder.AddSuccess(*result)
			builder.AddAttribute(AttributeAuthenticationMethod, handler.Name())
			if result.Principal != nil {
				principal = result.Principal
			}
		}
		if !supported {
			klog.Warningf("no authentication handler supports credential of type %s", credential.Type())
		}
	}

	if !succeeded {
		return nil, NewError(CodeBadCredentials, "authentication failed for all handlers")
	}
	builder.SetPrincipal(principal)
	return principal, nil
}
