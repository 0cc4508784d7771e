/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package registry

import (
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/ticket"
)

// Cleaner reaps expired tickets in the background.
type Cleaner interface {
	// Clean removes expired tickets and returns how many were removed.
	// It never lets an error escape to the calling scheduler.
	Clean() int
}

// NoOpCleaner is injected where background cleanup is handled elsewhere,
// e.g. by the backing store's own TTL mechanics.
type NoOpCleaner struct {
}

func (NoOpCleaner) Clean() int {
	return 0
}

// LifecycleNotifier receives ticket destruction events fired by the
// cleaner for session tickets, e.g. to drive single logout.
type LifecycleNotifier interface {
	OnSingleLogout(tgt *ticket.TicketGrantingTicket)
	OnTicketDestroyed(t ticket.Ticket)
}

type loggingNotifier struct {
}

// NewLoggingNotifier records lifecycle events in the log only.
func NewLoggingNotifier() LifecycleNotifier {
	return &loggingNotifier{}
}

func (n *loggingNotifier) OnSingleLogout(tgt *ticket.TicketGrantingTicket) {
	principal := ""
	if tgt.Authentication != nil && tgt.Authentication.Principal != nil {
		principal = tgt.Authentication.Principal.ID
	}
	klog.V(2).Infof("single logout for session %s of principal %s", tgt.ID(), principal)
}

func (n *loggingNotifier) OnTicketDestroyed(t ticket.Ticket) {
	klog.V(4).Infof("ticket %s destroyed", t.ID())
}

type defaultCleaner struct {
	registry Registry
	notifier LifecycleNotifier
	locks    *keyedLock

	// owner identifies this cleaner instance in logs when several
	// replicas sweep a shared store.
	owner string
}

func NewCleaner(r Registry, notifier LifecycleNotifier) Cleaner {
	if notifier == nil {
		notifier = NewLoggingNotifier()
	}
	return &defaultCleaner{
		registry: r,
		notifier: notifier,
		locks:    newKeyedLock(),
		owner:    uuid.New().String(),
	}
}

func (c *defaultCleaner) Clean() (removed int) {
	defer func() {
		if r := recover(); r != nil {
			klog.Errorf("ticket cleanup aborted: %v", r)
			removed = 0
		}
	}()

	if !c.registry.IsIterable() {
		klog.V(2).Info("ticket registry does not support enumeration, skipping cleanup")
		return 0
	}

	expired, err := GetTicketsWith(c.registry, func(t ticket.Ticket) bool {
		return t.IsExpired()
	})
	if err != nil {
		klog.Errorf("failed to enumerate tickets for cleanup: %v", err)
		return 0
	}

	for _, t := range expired {
		removed += c.cleanTicket(t)
	}
	if removed > 0 {
		klog.V(2).Infof("cleaner %s removed %d expired tickets", c.owner, removed)
	}
	return removed
}

func (c *defaultCleaner) cleanTicket(t ticket.Ticket) int {
	id := t.ID()
	c.locks.Lock(id)
	defer c.locks.Unlock(id)

	if tgt, ok := t.(*ticket.TicketGrantingTicket); ok {
		c.notifier.OnSingleLogout(tgt)
		c.notifier.OnTicketDestroyed(tgt)
	}

	count, err := c.registry.DeleteTicket(id)
	if err != nil {
		klog.Errorf("failed to delete expired ticket %s: %v", id, err)
		return 0
	}
	return count
}
