/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package registry

import (
	"fmt"

	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/crypto"
	"casflow.io/casflow/pkg/simple/client/cache"
	"casflow.io/casflow/pkg/ticket"
)

type defaultRegistry struct {
	store  store
	cipher crypto.CipherExecutor
}

// NewInMemoryRegistry builds a registry over an in-process concurrent map.
// A nil cipher disables the encode/decode boundary.
func NewInMemoryRegistry(cipher crypto.CipherExecutor) Registry {
	return newRegistry(newMemoryStore(), cipher)
}

// NewCacheRegistry builds a registry over any cache backend (in-memory,
// redis, ...). A nil cipher disables the encode/decode boundary.
func NewCacheRegistry(client cache.Interface, cipher crypto.CipherExecutor) Registry {
	return newRegistry(newCacheStore(client), cipher)
}

func newRegistry(s store, cipher crypto.CipherExecutor) Registry {
	if cipher == nil {
		cipher = crypto.NewNoOpCipher()
	}
	return &defaultRegistry{store: s, cipher: cipher}
}

// key maps a plaintext ticket id to its stored key. With an enabled cipher
// the stored key is a deterministic digest so lookups by plaintext id
// still resolve.
func (r *defaultRegistry) key(id string) string {
	if r.cipher.Enabled() {
		return crypto.DigestID(id)
	}
	return id
}

func (r *defaultRegistry) encode(t ticket.Ticket) (ticket.Ticket, error) {
	if !r.cipher.Enabled() {
		return t, nil
	}
	data, err := ticket.Marshal(t)
	if err != nil {
		return nil, err
	}
	payload, err := r.cipher.Encode(data)
	if err != nil {
		return nil, err
	}
	return &ticket.EncodedTicket{
		TicketID:     crypto.DigestID(t.ID()),
		TicketPrefix: t.Prefix(),
		Payload:      payload,
	}, nil
}

func (r *defaultRegistry) decode(t ticket.Ticket) (ticket.Ticket, error) {
	encoded, ok := t.(*ticket.EncodedTicket)
	if !ok {
		return t, nil
	}
	data, err := r.cipher.Decode(encoded.Payload)
	if err != nil {
		return nil, err
	}
	return ticket.Unmarshal(data)
}

func (r *defaultRegistry) AddTicket(t ticket.Ticket) error {
	if t == nil {
		return fmt.Errorf("cannot add a nil ticket")
	}
	encoded, err := r.encode(t)
	if err != nil {
		return err
	}
	klog.V(4).Infof("adding ticket %s to the registry", t.ID())
	return r.store.put(r.key(t.ID()), encoded, t.ExpirationPolicy().TimeToKill())
}

func (r *defaultRegistry) GetTicket(id string) (ticket.Ticket, error) {
	t, err := r.fetch(id)
	if err != nil || t == nil {
		return nil, err
	}
	if t.IsExpired() {
		klog.V(2).Infof("ticket %s has expired and will be removed", id)
		if _, err := r.DeleteTicket(id); err != nil {
			klog.Errorf("failed to delete expired ticket %s: %v", id, err)
		}
		return nil, nil
	}
	return t, nil
}

// fetch retrieves and decodes without the lazy-expiry side effect.
func (r *defaultRegistry) fetch(id string) (ticket.Ticket, error) {
	raw, err := r.store.get(r.key(id))
	if err != nil || raw == nil {
		return nil, err
	}
	return r.decode(raw)
}

func (r *defaultRegistry) UpdateTicket(t ticket.Ticket) error {
	if t == nil {
		return fmt.Errorf("cannot update a nil ticket")
	}
	encoded, err := r.encode(t)
	if err != nil {
		return err
	}
	return r.store.put(r.key(t.ID()), encoded, t.ExpirationPolicy().TimeToKill())
}

func (r *defaultRegistry) DeleteTicket(id string) (int, error) {
	t, err := r.fetch(id)
	if err != nil {
		return 0, err
	}
	if t == nil {
		return 0, nil
	}

	switch concrete := t.(type) {
	case *ticket.TicketGrantingTicket:
		return r.deleteGrantingTicket(concrete)
	case *ticket.ProxyGrantingTicket:
		return r.deleteProxyGrantingTicket(concrete)
	default:
		return r.removeOne(id)
	}
}

// deleteGrantingTicket removes the session and everything it transitively
// owns: first the granted service tickets, then the linked proxy-granting
// tickets, finally the ticket itself.
func (r *defaultRegistry) deleteGrantingTicket(tgt *ticket.TicketGrantingTicket) (int, error) {
	count := 0
	for _, id := range tgt.DescendantIDs() {
		removed, err := r.removeOne(id)
		if err != nil {
			return count, err
		}
		count += removed
	}
	removed, err := r.removeOne(tgt.ID())
	if err != nil {
		return count, err
	}
	count += removed
	klog.V(2).Infof("deleted ticket-granting ticket %s and %d descendants", tgt.ID(), count-removed)
	return count, nil
}

// deleteProxyGrantingTicket detaches the child from its parent session
// before removal so the parent's tracking map stays consistent.
func (r *defaultRegistry) deleteProxyGrantingTicket(pgt *ticket.ProxyGrantingTicket) (int, error) {
	parent, err := r.fetch(pgt.TicketGrantingTicketID)
	if err != nil {
		return 0, err
	}
	if tgt, ok := parent.(*ticket.TicketGrantingTicket); ok && tgt != nil {
		tgt.UntrackProxyGrantingTicket(pgt.ID())
		if err := r.UpdateTicket(tgt); err != nil {
			return 0, err
		}
	}
	return r.removeOne(pgt.ID())
}

func (r *defaultRegistry) removeOne(id string) (int, error) {
	removed, err := r.store.remove(r.key(id))
	if err != nil {
		return 0, err
	}
	if removed {
		return 1, nil
	}
	return 0, nil
}

func (r *defaultRegistry) DeleteAll() (int, error) {
	return r.store.removeAll()
}

func (r *defaultRegistry) GetTickets() ([]ticket.Ticket, error) {
	raw, err := r.store.list()
	if err != nil {
		return nil, err
	}
	decoded := make([]ticket.Ticket, 0, len(raw))
	for _, t := range raw {
		d, err := r.decode(t)
		if err != nil {
			klog.Errorf("skipping undecodable ticket %s: %v", t.ID(), err)
			continue
		}
		decoded = append(decoded, d)
	}
	return decoded, nil
}

func (r *defaultRegistry) IsIterable() bool {
	return r.store.iterable()
}

func (r *defaultRegistry) SessionCount() int64 {
	return r.count(func(t ticket.Ticket) bool {
		return t.Prefix() == ticket.PrefixTicketGrantingTicket
	})
}

func (r *defaultRegistry) ServiceTicketCount() int64 {
	return r.count(func(t ticket.Ticket) bool {
		return t.Prefix() == ticket.PrefixServiceTicket
	})
}

func (r *defaultRegistry) CountSessionsFor(principalID string) int64 {
	return r.count(func(t ticket.Ticket) bool {
		tgt, ok := t.(*ticket.TicketGrantingTicket)
		return ok && tgt.Authentication != nil &&
			tgt.Authentication.Principal != nil &&
			tgt.Authentication.Principal.ID == principalID
	})
}

func (r *defaultRegistry) count(predicate func(ticket.Ticket) bool) int64 {
	tickets, err := GetTicketsWith(r, predicate)
	if err == ErrNotIterable {
		klog.V(4).Info("registry backend is not enumerable, reporting unknown count")
		return CountUnknown
	}
	if err != nil {
		klog.Errorf("failed to enumerate tickets: %v", err)
		return CountUnknown
	}
	return int64(len(tickets))
}
