/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package ticket

import (
	"encoding/json"
	"fmt"
)

// envelope wraps a serialized ticket with enough type information to
// reconstruct the concrete type.
type envelope struct {
	Prefix  string          `json:"prefix"`
	Encoded bool            `json:"encoded,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// Marshal serializes any concrete ticket losslessly for storage.
func Marshal(t Ticket) ([]byte, error) {
	encoded := false
	if _, ok := t.(*EncodedTicket); ok {
		encoded = true
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Prefix: t.Prefix(), Encoded: encoded, Data: data})
}

// Unmarshal reconstructs the concrete ticket type from Marshal output.
func Unmarshal(data []byte) (Ticket, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	if env.Encoded {
		t := &EncodedTicket{}
		if err := json.Unmarshal(env.Data, t); err != nil {
			return nil, err
		}
		return t, nil
	}

	switch env.Prefix {
	case PrefixTicketGrantingTicket:
		t := &TicketGrantingTicket{}
		if err := json.Unmarshal(env.Data, t); err != nil {
			return nil, err
		}
		return t, nil
	case PrefixServiceTicket:
		t := &ServiceTicket{}
		if err := json.Unmarshal(env.Data, t); err != nil {
			return nil, err
		}
		return t, nil
	case PrefixProxyGrantingTicket:
		t := &ProxyGrantingTicket{}
		if err := json.Unmarshal(env.Data, t); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown ticket prefix %q", env.Prefix)
	}
}
