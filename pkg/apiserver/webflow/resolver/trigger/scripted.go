/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package trigger

import (
	"context"

	"github.com/open-policy-agent/opa/rego"
	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	"casflow.io/casflow/pkg/apiserver/webflow"
)

// DefaultScriptedQuery locates the provider decision in the policy document.
const DefaultScriptedQuery = "data.mfa.provider"

// ScriptedTrigger evaluates a rego policy against the request to pick a
// provider. The policy sees the principal id, its attributes and the
// service id as input and yields a provider id, or nothing.
type ScriptedTrigger struct {
	directory *mfa.Directory
	query     rego.PreparedEvalQuery
	prepared  bool
}

// NewScriptedTrigger compiles the policy once at construction. A policy
// that fails to compile yields a trigger that never applies, logged rather
// than failing startup.
func NewScriptedTrigger(directory *mfa.Directory, policy, query string) *ScriptedTrigger {
	t := &ScriptedTrigger{directory: directory}
	if policy == "" {
		return t
	}
	if query == "" {
		query = DefaultScriptedQuery
	}
	prepared, err := rego.New(
		rego.Query(query),
		rego.Module("mfa.rego", policy),
	).PrepareForEval(context.Background())
	if err != nil {
		klog.Errorf("mfa policy syntax error: %v", err)
		return t
	}
	t.query = prepared
	t.prepared = true
	return t
}

func (t *ScriptedTrigger) Name() string {
	return "scripted"
}

func (t *ScriptedTrigger) Resolve(ctx context.Context, wc *webflow.Context) (*webflow.Event, error) {
	if !t.prepared || wc.Authentication == nil || wc.Authentication.Principal == nil {
		return nil, nil
	}

	input := map[string]interface{}{
		"principal":  wc.Authentication.Principal.ID,
		"attributes": wc.Authentication.Principal.Attributes,
	}
	if wc.Service != nil {
		input["service"] = wc.Service.ID
	}

	results, err := t.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		klog.Errorf("mfa policy evaluation failed: %v", err)
		return nil, nil
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return nil, nil
	}
	providerID, ok := results[0].Expressions[0].Value.(string)
	if !ok || providerID == "" {
		return nil, nil
	}
	return emitByID(wc, t.directory, providerID)
}
