/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package ticket

import (
	"time"
)

// Expiration policy types.
const (
	PolicyNever       = "Never"
	PolicyAlways      = "Always"
	PolicyHardTimeout = "HardTimeout"
	PolicySliding     = "SlidingWindow"
	PolicyMultiUse    = "MultiUse"
)

// State is the mutable ticket state an expiration policy may consult.
type State interface {
	CreationTime() time.Time
	CountOfUses() int
	LastTimeUsed() time.Time
}

// ExpirationPolicy decides expiry from creation time, use count and
// elapsed time. The zero value never expires.
type ExpirationPolicy struct {
	Type string `json:"type,omitempty" yaml:"type" mapstructure:"type"`

	// TimeToLive bounds the ticket's total lifetime (HardTimeout,
	// MultiUse).
	TimeToLive time.Duration `json:"timeToLive,omitempty" yaml:"timeToLive" mapstructure:"timeToLive"`

	// TimeToIdle bounds the gap between consecutive uses (SlidingWindow).
	TimeToIdle time.Duration `json:"timeToIdle,omitempty" yaml:"timeToIdle" mapstructure:"timeToIdle"`

	// NumberOfUses bounds how often the ticket may be used (MultiUse).
	NumberOfUses int `json:"numberOfUses,omitempty" yaml:"numberOfUses" mapstructure:"numberOfUses"`
}

func NeverExpires() ExpirationPolicy {
	return ExpirationPolicy{Type: PolicyNever}
}

// AlwaysExpires is used by tests and revocation paths.
func AlwaysExpires() ExpirationPolicy {
	return ExpirationPolicy{Type: PolicyAlways}
}

func HardTimeoutPolicy(timeToLive time.Duration) ExpirationPolicy {
	return ExpirationPolicy{Type: PolicyHardTimeout, TimeToLive: timeToLive}
}

func SlidingWindowPolicy(timeToIdle time.Duration) ExpirationPolicy {
	return ExpirationPolicy{Type: PolicySliding, TimeToIdle: timeToIdle}
}

// MultiUsePolicy is the default service ticket policy: at most
// numberOfUses uses within timeToLive.
func MultiUsePolicy(numberOfUses int, timeToLive time.Duration) ExpirationPolicy {
	return ExpirationPolicy{Type: PolicyMultiUse, NumberOfUses: numberOfUses, TimeToLive: timeToLive}
}

func (p ExpirationPolicy) IsExpired(state State) bool {
	switch p.Type {
	case PolicyAlways:
		return true
	case PolicyHardTimeout:
		return time.Since(state.CreationTime()) > p.TimeToLive
	case PolicySliding:
		return time.Since(state.LastTimeUsed()) > p.TimeToIdle
	case PolicyMultiUse:
		if state.CountOfUses() >= p.NumberOfUses {
			return true
		}
		return time.Since(state.CreationTime()) > p.TimeToLive
	default:
		return false
	}
}

// TimeToKill reports the upper bound on the ticket's remaining lifetime,
// zero for unbounded. Used to derive store TTLs.
func (p ExpirationPolicy) TimeToKill() time.Duration {
	switch p.Type {
	case PolicyHardTimeout, PolicyMultiUse:
		return p.TimeToLive
	case PolicySliding:
		return p.TimeToIdle
	default:
		return 0
	}
}
