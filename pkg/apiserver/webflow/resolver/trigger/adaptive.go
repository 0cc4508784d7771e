/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package trigger

import (
	"context"
	"regexp"

	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/apiserver/webflow"
)

// AdaptiveOptions map request metadata patterns to the provider that a
// matching request must satisfy.
type AdaptiveOptions struct {
	// RemoteAddrPatterns maps a remote address regex to a provider id.
	RemoteAddrPatterns map[string]string `json:"remoteAddrPatterns,omitempty" yaml:"remoteAddrPatterns" mapstructure:"remoteAddrPatterns"`

	// UserAgentPatterns maps a user agent regex to a provider id.
	UserAgentPatterns map[string]string `json:"userAgentPatterns,omitempty" yaml:"userAgentPatterns" mapstructure:"userAgentPatterns"`
}

// AdaptiveTrigger demands a factor based on where the request comes from,
// e.g. untrusted networks or suspicious clients.
type AdaptiveTrigger struct {
	directory *mfa.Directory
	options   *AdaptiveOptions
}

func NewAdaptiveTrigger(directory *mfa.Directory, options *AdaptiveOptions) *AdaptiveTrigger {
	if options == nil {
		options = &AdaptiveOptions{}
	}
	return &AdaptiveTrigger{directory: directory, options: options}
}

func (t *AdaptiveTrigger) Name() string {
	return "adaptive"
}

func (t *AdaptiveTrigger) Resolve(_ context.Context, wc *webflow.Context) (*webflow.Event, error) {
	if wc.Authentication == nil {
		return nil, nil
	}
	if id := matchPatterns(t.options.RemoteAddrPatterns, wc.RemoteAddr); id != "" {
		return emitByID(wc, t.directory, id)
	}
	if id := matchPatterns(t.options.UserAgentPatterns, wc.UserAgent); id != "" {
		return emitByID(wc, t.directory, id)
	}
	return nil, nil
}

func matchPatterns(patterns map[string]string, value string) string {
	if value == "" {
		return ""
	}
	for pattern, providerID := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			klog.Errorf("invalid adaptive pattern %q: %v", pattern, err)
			continue
		}
		if re.MatchString(value) {
			return providerID
		}
	}
	return ""
}
