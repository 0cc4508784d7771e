/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

type AuthenticationOptions struct {
	// StaticUsers maps usernames to plain passwords for the bootstrap
	// credentials handler.
	StaticUsers map[string]string `json:"-" yaml:"staticUsers" mapstructure:"staticUsers"`

	// StaticAttributes are the principal attributes released for each
	// static user.
	StaticAttributes map[string]map[string][]string `json:"-" yaml:"staticAttributes" mapstructure:"staticAttributes"`

	// JWTSecret signs tokens issued for services that opt into the
	// JWT-as-service-ticket property.
	JWTSecret string `json:"-" yaml:"jwtSecret" mapstructure:"jwtSecret"`

	// TokenExpiration bounds issued token lifetime.
	TokenExpiration time.Duration `json:"tokenExpiration" yaml:"tokenExpiration" mapstructure:"tokenExpiration"`

	// MaximumClockSkew tolerated when verifying token time claims.
	MaximumClockSkew time.Duration `json:"maximumClockSkew" yaml:"maximumClockSkew" mapstructure:"maximumClockSkew"`
}

func NewAuthenticationOptions() *AuthenticationOptions {
	return &AuthenticationOptions{
		StaticUsers:      map[string]string{},
		TokenExpiration:  2 * time.Hour,
		MaximumClockSkew: 10 * time.Second,
	}
}

func (o *AuthenticationOptions) Validate() []error {
	errs := make([]error, 0)
	if o.MaximumClockSkew < 0 {
		errs = append(errs, fmt.Errorf("maximum clock skew must not be negative"))
	}
	return errs
}

func (o *AuthenticationOptions) AddFlags(fs *pflag.FlagSet, s *AuthenticationOptions) {
	fs.StringVar(&o.JWTSecret, "jwt-secret", s.JWTSecret,
		"Secret used to sign tokens for services that receive JWTs instead of opaque tickets.")
	fs.DurationVar(&o.TokenExpiration, "token-expiration", s.TokenExpiration,
		"Lifetime of issued tokens.")
	fs.DurationVar(&o.MaximumClockSkew, "maximum-clock-skew", s.MaximumClockSkew,
		"Maximum acceptable clock difference when validating token time claims.")
}
