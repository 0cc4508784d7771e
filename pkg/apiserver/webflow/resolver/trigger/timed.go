/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package trigger

import (
	"context"
	"time"

	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/apiserver/webflow"
)

// TimeWindow demands a provider during a daily time-of-day range. A window
// may wrap midnight (OnOrAfterHour > OnOrBeforeHour).
type TimeWindow struct {
	OnOrAfterHour  int    `json:"onOrAfterHour" yaml:"onOrAfterHour" mapstructure:"onOrAfterHour"`
	OnOrBeforeHour int    `json:"onOrBeforeHour" yaml:"onOrBeforeHour" mapstructure:"onOrBeforeHour"`
	ProviderID     string `json:"providerId" yaml:"providerId" mapstructure:"providerId"`
}

func (w *TimeWindow) contains(hour int) bool {
	if w.OnOrAfterHour <= w.OnOrBeforeHour {
		return hour >= w.OnOrAfterHour && hour <= w.OnOrBeforeHour
	}
	return hour >= w.OnOrAfterHour || hour <= w.OnOrBeforeHour
}

// TimedTrigger demands a factor during configured hours, e.g. off-hours
// access to sensitive services.
type TimedTrigger struct {
	directory *mfa.Directory
	windows   []TimeWindow

	// now is replaceable in tests.
	now func() time.Time
}

func NewTimedTrigger(directory *mfa.Directory, windows []TimeWindow) *TimedTrigger {
	return &TimedTrigger{directory: directory, windows: windows, now: time.Now}
}

func (t *TimedTrigger) Name() string {
	return "timed"
}

func (t *TimedTrigger) Resolve(_ context.Context, wc *webflow.Context) (*webflow.Event, error) {
	if len(t.windows) == 0 || wc.Authentication == nil {
		return nil, nil
	}
	hour := t.now().Hour()
	for i := range t.windows {
		if t.windows[i].contains(hour) {
			return emitByID(wc, t.directory, t.windows[i].ProviderID)
		}
	}
	return nil, nil
}
