/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package registry

import (
	"sync"
	"time"

	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/simple/client/cache"
	"casflow.io/casflow/pkg/ticket"
)

// store is the raw keyed persistence beneath a registry, beneath the
// encode/decode boundary.
type store interface {
	put(key string, t ticket.Ticket, ttl time.Duration) error
	get(key string) (ticket.Ticket, error)
	remove(key string) (bool, error)
	removeAll() (int, error)
	list() ([]ticket.Ticket, error)
	iterable() bool
}

type memoryStore struct {
	mutex   sync.RWMutex
	tickets map[string]ticket.Ticket
}

func newMemoryStore() *memoryStore {
	return &memoryStore{tickets: map[string]ticket.Ticket{}}
}

func (s *memoryStore) put(key string, t ticket.Ticket, ttl time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tickets[key] = t
	return nil
}

func (s *memoryStore) get(key string) (ticket.Ticket, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.tickets[key], nil
}

func (s *memoryStore) remove(key string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.tickets[key]; !ok {
		return false, nil
	}
	delete(s.tickets, key)
	return true, nil
}

func (s *memoryStore) removeAll() (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	size := len(s.tickets)
	s.tickets = map[string]ticket.Ticket{}
	return size, nil
}

func (s *memoryStore) list() ([]ticket.Ticket, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	all := make([]ticket.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		all = append(all, t)
	}
	return all, nil
}

func (s *memoryStore) iterable() bool {
	return true
}

const cacheKeyPrefix = "casflow:ticket:"

// cacheStore persists serialized tickets into a cache.Interface, giving
// the registry redis and other remote backends for free. Iterability
// depends on the backend's key scan support.
type cacheStore struct {
	client cache.Interface
}

func newCacheStore(client cache.Interface) *cacheStore {
	return &cacheStore{client: client}
}

func (s *cacheStore) cacheKey(key string) string {
	return cacheKeyPrefix + key
}

func (s *cacheStore) put(key string, t ticket.Ticket, ttl time.Duration) error {
	data, err := ticket.Marshal(t)
	if err != nil {
		return err
	}
	return s.client.Set(s.cacheKey(key), string(data), ttl)
}

func (s *cacheStore) get(key string) (ticket.Ticket, error) {
	value, err := s.client.Get(s.cacheKey(key))
	if err == cache.ErrNoSuchKey {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ticket.Unmarshal([]byte(value))
}

func (s *cacheStore) remove(key string) (bool, error) {
	exists, err := s.client.Exists(s.cacheKey(key))
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	return true, s.client.Del(s.cacheKey(key))
}

func (s *cacheStore) removeAll() (int, error) {
	keys, err := s.client.Keys(cacheKeyPrefix + "*")
	if err == cache.ErrKeyScanUnsupported {
		return 0, ErrNotIterable
	}
	if err != nil {
		return 0, err
	}
	if len(keys) > 0 {
		if err := s.client.Del(keys...); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}

func (s *cacheStore) list() ([]ticket.Ticket, error) {
	keys, err := s.client.Keys(cacheKeyPrefix + "*")
	if err == cache.ErrKeyScanUnsupported {
		return nil, ErrNotIterable
	}
	if err != nil {
		return nil, err
	}

	all := make([]ticket.Ticket, 0, len(keys))
	for _, key := range keys {
		value, err := s.client.Get(key)
		if err != nil {
			// raced with a concurrent delete
			continue
		}
		t, err := ticket.Unmarshal([]byte(value))
		if err != nil {
			klog.Errorf("skipping undecodable ticket under %s: %v", key, err)
			continue
		}
		all = append(all, t)
	}
	return all, nil
}

func (s *cacheStore) iterable() bool {
	_, err := s.client.Keys(cacheKeyPrefix + "*")
	return err != cache.ErrKeyScanUnsupported
}
