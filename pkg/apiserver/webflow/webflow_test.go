/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package webflow

import (
	"errors"
	"fmt"
	"testing"
)

func TestContextTransitions(t *testing.T) {
	wc := NewContext()

	// terminal events are always reachable
	for _, id := range []string{EventSuccess, EventSuccessWithWarnings, EventAuthenticationFailure, EventError} {
		if !wc.HasTransition(id) {
			t.Errorf("terminal transition %s must be pre-registered", id)
		}
	}
	if wc.HasTransition("mfa-totp") {
		t.Error("provider transitions are opt-in")
	}

	wc.RegisterTransitions("mfa-totp", "mfa-duo")
	if !wc.HasTransition("mfa-totp") || !wc.HasTransition("mfa-duo") {
		t.Error("registered transitions must be reachable")
	}
}

func TestContextParameters(t *testing.T) {
	wc := NewContext()
	if got := wc.Parameter("authn_method"); got != "" {
		t.Errorf("missing parameter must read empty, got %q", got)
	}
	wc.Parameters["authn_method"] = "mfa-totp"
	if got := wc.Parameter("authn_method"); got != "mfa-totp" {
		t.Errorf("unexpected parameter value %q", got)
	}
}

func TestEventIsTerminal(t *testing.T) {
	terminal := []string{EventSuccess, EventSuccessWithWarnings, EventAuthenticationFailure, EventError}
	for _, id := range terminal {
		if !NewEvent(id).IsTerminal() {
			t.Errorf("%s must be terminal", id)
		}
	}
	if NewEvent("mfa-totp").IsTerminal() {
		t.Error("provider events are challenges, not outcomes")
	}
}

func TestIsFatal(t *testing.T) {
	transitionErr := &NoSuchTransitionError{EventID: "mfa-totp"}
	if !IsFatal(transitionErr) {
		t.Error("missing transitions are fatal")
	}
	if !IsFatal(fmt.Errorf("resolving: %w", transitionErr)) {
		t.Error("fatality must survive wrapping")
	}
	if IsFatal(errors.New("transient backend outage")) {
		t.Error("ordinary errors are not fatal")
	}
	if IsFatal(nil) {
		t.Error("nil is not fatal")
	}
}
