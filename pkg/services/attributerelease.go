/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package services

import (
	"casflow.io/casflow/pkg/apiserver/authentication"
)

// Attribute release policy types.
const (
	ReleaseReturnAll     = "ReturnAll"
	ReleaseReturnAllowed = "ReturnAllowed"
	ReleaseReturnMapped  = "ReturnMapped"
	ReleaseDenyAll       = "DenyAll"
)

// AttributeReleasePolicy governs which principal attributes are exposed to
// a relying service. An empty Type denies everything.
type AttributeReleasePolicy struct {
	Type string `json:"type" yaml:"type" mapstructure:"type"`

	// Allowed lists attribute names released by the ReturnAllowed policy.
	Allowed []string `json:"allowed,omitempty" yaml:"allowed" mapstructure:"allowed"`

	// Mapped renames attributes on release, local name to released name.
	Mapped map[string]string `json:"mapped,omitempty" yaml:"mapped" mapstructure:"mapped"`
}

// ReleaseAttributes applies the policy to the principal's attributes.
func (p AttributeReleasePolicy) ReleaseAttributes(principal *authentication.Principal) map[string][]string {
	released := map[string][]string{}
	if principal == nil {
		return released
	}

	switch p.Type {
	case ReleaseReturnAll:
		for name, values := range principal.Attributes {
			released[name] = append([]string(nil), values...)
		}
	case ReleaseReturnAllowed:
		for _, name := range p.Allowed {
			if values, ok := principal.Attributes[name]; ok {
				released[name] = append([]string(nil), values...)
			}
		}
	case ReleaseReturnMapped:
		for local, remote := range p.Mapped {
			if values, ok := principal.Attributes[local]; ok {
				released[remote] = append([]string(nil), values...)
			}
		}
	}
	return released
}
