/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package options

import (
	"encoding/json"
	"strings"
)

// DynamicOptions is a free-form option bag for pluggable components,
// decoded into concrete option structs by each component factory.
type DynamicOptions map[string]interface{}

func (o DynamicOptions) MarshalJSON() ([]byte, error) {
	return json.Marshal(sanitize(map[string]interface{}(o)))
}

var sensitiveKeys = []string{"password", "secret", "clientSecret", "privateKey", "signingKey"}

// sanitize masks sensitive fields before the options are logged or rendered.
func sanitize(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		if isSensitive(k) {
			out[k] = "**************"
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			out[k] = sanitize(nested)
			continue
		}
		out[k] = v
	}
	return out
}

func isSensitive(key string) bool {
	for _, s := range sensitiveKeys {
		if strings.EqualFold(key, s) {
			return true
		}
	}
	return false
}
