/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package services

import (
	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/apiserver/authentication"
)

// AuditableContext carries the inputs of an access strategy decision.
type AuditableContext struct {
	Service           *authentication.Service
	RegisteredService *RegisteredService
	Principal         *authentication.Principal
}

// AuditableResult is the outcome of an access strategy decision; Err
// returns the denial, nil when access is granted.
type AuditableResult struct {
	err error
}

func (r *AuditableResult) Err() error {
	return r.err
}

// AccessEnforcer applies a registered service's access strategy. It is the
// authorization gate the webflow consults before MFA arbitration.
type AccessEnforcer interface {
	Execute(ctx *AuditableContext) *AuditableResult
}

type registeredServiceAccessEnforcer struct {
}

func NewAccessEnforcer() AccessEnforcer {
	return &registeredServiceAccessEnforcer{}
}

func (e *registeredServiceAccessEnforcer) Execute(ctx *AuditableContext) *AuditableResult {
	if ctx.Service == nil {
		return &AuditableResult{}
	}
	if ctx.RegisteredService == nil {
		return &AuditableResult{err: authentication.NewError(authentication.CodeUnauthorizedService,
			"service %q is not registered", ctx.Service.ID)}
	}
	if err := ctx.RegisteredService.CheckAccess(ctx.Principal); err != nil {
		klog.V(2).Infof("access denied for service %s: %v", ctx.Service.ID, err)
		return &AuditableResult{err: err}
	}
	return &AuditableResult{}
}
