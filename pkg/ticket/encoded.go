/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package ticket

import (
	"fmt"
	"time"
)

// EncodedTicket is the opaque encrypted form of any concrete ticket, used
// when the registry's cipher executor is enabled. Only the id (a digest of
// the real id) and the prefix are readable; every semantic operation
// requires decoding first and panics otherwise, surfacing programmer error
// loudly instead of silently misbehaving.
type EncodedTicket struct {
	TicketID     string `json:"id"`
	TicketPrefix string `json:"prefix"`
	Payload      []byte `json:"payload"`
}

func (t *EncodedTicket) ID() string {
	return t.TicketID
}

func (t *EncodedTicket) Prefix() string {
	return t.TicketPrefix
}

func (t *EncodedTicket) CreationTime() time.Time {
	panic(t.unsupported("CreationTime"))
}

func (t *EncodedTicket) CountOfUses() int {
	panic(t.unsupported("CountOfUses"))
}

func (t *EncodedTicket) LastTimeUsed() time.Time {
	panic(t.unsupported("LastTimeUsed"))
}

func (t *EncodedTicket) ExpirationPolicy() ExpirationPolicy {
	panic(t.unsupported("ExpirationPolicy"))
}

func (t *EncodedTicket) IsExpired() bool {
	panic(t.unsupported("IsExpired"))
}

func (t *EncodedTicket) MarkExpired() {
	panic(t.unsupported("MarkExpired"))
}

func (t *EncodedTicket) Update() {
	panic(t.unsupported("Update"))
}

func (t *EncodedTicket) unsupported(op string) string {
	return fmt.Sprintf("%s is not supported on encoded ticket %s; decode it first", op, t.TicketID)
}
