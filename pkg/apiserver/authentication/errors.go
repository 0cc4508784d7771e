/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package authentication

import (
	"errors"
	"fmt"
)

// Error is a domain authentication failure (bad credentials, locked
// account, unauthorized service and the like). The webflow resolver
// recovers it into a terminal authenticationFailure event instead of
// letting it propagate.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewError(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Common failure codes.
const (
	CodeBadCredentials      = "error.authentication.credentials.bad"
	CodeAccountLocked       = "error.authentication.account.locked"
	CodeUnauthorizedService = "error.service.unauthorized"
	CodeProviderUnavailable = "error.mfa.provider.unavailable"
)

// IsAuthenticationError reports whether err is (or wraps) a domain
// authentication failure.
func IsAuthenticationError(err error) bool {
	var authErr *Error
	return errors.As(err, &authErr)
}
