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

// PrincipalAttributeTrigger selects a provider when a principal attribute
// matches. With GlobalValuePattern set, any attribute value matching the
// pattern triggers every listed provider and arbitration narrows the set;
// otherwise an attribute value must literally name a provider id.
type PrincipalAttributeTrigger struct {
	directory          *mfa.Directory
	attributeNames     []string
	globalValuePattern string
	providerIDs        []string
}

func NewPrincipalAttributeTrigger(directory *mfa.Directory, attributeNames []string, globalValuePattern string, providerIDs []string) *PrincipalAttributeTrigger {
	return &PrincipalAttributeTrigger{
		directory:          directory,
		attributeNames:     attributeNames,
		globalValuePattern: globalValuePattern,
		providerIDs:        providerIDs,
	}
}

func (t *PrincipalAttributeTrigger) Name() string {
	return "principal-attribute"
}

func (t *PrincipalAttributeTrigger) Resolve(_ context.Context, wc *webflow.Context) (*webflow.Event, error) {
	if len(t.attributeNames) == 0 || wc.Authentication == nil || wc.Authentication.Principal == nil {
		return nil, nil
	}
	return resolveByAttributes(wc, t.directory, wc.Authentication.Principal.Attributes,
		t.attributeNames, t.globalValuePattern, t.providerIDs)
}

// resolveByAttributes is shared with the authentication-attribute and
// service-scoped variants of this policy.
func resolveByAttributes(wc *webflow.Context, directory *mfa.Directory, attributes map[string][]string,
	names []string, valuePattern string, providerIDs []string) (*webflow.Event, error) {

	if valuePattern != "" {
		re, err := regexp.Compile(valuePattern)
		if err != nil {
			klog.Errorf("invalid trigger value pattern %q: %v", valuePattern, err)
			return nil, nil
		}
		for _, name := range names {
			for _, value := range attributes[name] {
				if !re.MatchString(value) {
					continue
				}
				for _, id := range providerIDs {
					if event, err := emitByID(wc, directory, id); event != nil || err != nil {
						return event, err
					}
				}
			}
		}
		return nil, nil
	}

	// no pattern: values name providers directly
	for _, name := range names {
		for _, value := range attributes[name] {
			if event, err := emitByID(wc, directory, value); event != nil || err != nil {
				return event, err
			}
		}
	}
	return nil, nil
}
