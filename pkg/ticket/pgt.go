/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package ticket

import (
	"casflow.io/casflow/pkg/apiserver/authentication"
)

// ProxyGrantingTicket permits a service to authenticate on behalf of the
// user to further back-end services. It descends from a service ticket and
// keeps a back-reference to the session that granted it.
type ProxyGrantingTicket struct {
	baseTicket

	TicketGrantingTicketID string                  `json:"ticketGrantingTicketId"`
	ServiceTicketID        string                  `json:"serviceTicketId"`
	Service                *authentication.Service `json:"service"`

	// IOU is handed to the proxying service out of band to prove the
	// ticket was issued for it.
	IOU string `json:"iou"`
}

func (t *ProxyGrantingTicket) Prefix() string {
	return PrefixProxyGrantingTicket
}
