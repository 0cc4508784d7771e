/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package cache

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"k8s.io/apimachinery/pkg/util/wait"

	"casflow.io/casflow/pkg/server/options"
)

const (
	TypeInMemory         = "InMemory"
	defaultCleanupPeriod = 2 * time.Hour
)

type simpleObject struct {
	value       string
	neverExpire bool
	expiredAt   time.Time
}

func (so *simpleObject) IsExpired() bool {
	if so.neverExpire {
		return false
	}
	return time.Now().After(so.expiredAt)
}

// InMemoryOptions used to create an inMemoryCache.
// CleanupPeriod specifies how often expired objects are swept out.
// Note the in-memory cache cannot be shared between replicas, which will
// lead to data inconsistency.
type InMemoryOptions struct {
	CleanupPeriod time.Duration `json:"cleanupPeriod" yaml:"cleanupPeriod" mapstructure:"cleanupperiod"`
}

type inMemoryCache struct {
	store *threadSafeStore
}

type threadSafeStore struct {
	store map[string]simpleObject
	mutex sync.RWMutex
}

func newThreadSafeStore() *threadSafeStore {
	return &threadSafeStore{
		store: make(map[string]simpleObject),
	}
}

func (s *threadSafeStore) get(key string) (simpleObject, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	obj, ok := s.store[key]
	return obj, ok
}

func (s *threadSafeStore) set(key string, obj simpleObject) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.store[key] = obj
}

func (s *threadSafeStore) delete(keys ...string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, key := range keys {
		delete(s.store, key)
	}
}

func (s *threadSafeStore) keys() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	keys := make([]string, 0, len(s.store))
	for k := range s.store {
		keys = append(keys, k)
	}
	return keys
}

func (s *threadSafeStore) cleanExpired() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for k, v := range s.store {
		if v.IsExpired() {
			delete(s.store, k)
		}
	}
}

func NewInMemoryCache(option *InMemoryOptions, stopCh <-chan struct{}) (Interface, error) {
	cache := &inMemoryCache{
		store: newThreadSafeStore(),
	}

	cleanupPeriod := defaultCleanupPeriod
	if option != nil && option.CleanupPeriod != 0 {
		cleanupPeriod = option.CleanupPeriod
	}
	if stopCh != nil {
		go wait.Until(cache.store.cleanExpired, cleanupPeriod, stopCh)
	}

	return cache, nil
}

func (c *inMemoryCache) Keys(pattern string) ([]string, error) {
	// There is a little difference between go regexp and redis key pattern.
	// In redis * matches any sequence, in go that is .*
	pattern = strings.Replace(pattern, "*", ".*", -1)
	re, err := regexp.Compile("^" + pattern + "$")
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, k := range c.store.keys() {
		if re.MatchString(k) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (c *inMemoryCache) Get(key string) (string, error) {
	if obj, ok := c.store.get(key); ok && !obj.IsExpired() {
		return obj.value, nil
	}
	return "", ErrNoSuchKey
}

func (c *inMemoryCache) Set(key string, value string, duration time.Duration) error {
	obj := simpleObject{
		value:       value,
		neverExpire: duration == NeverExpire,
		expiredAt:   time.Now().Add(duration),
	}
	c.store.set(key, obj)
	return nil
}

func (c *inMemoryCache) Del(keys ...string) error {
	c.store.delete(keys...)
	return nil
}

func (c *inMemoryCache) Exists(keys ...string) (bool, error) {
	for _, key := range keys {
		if obj, ok := c.store.get(key); !ok || obj.IsExpired() {
			return false, nil
		}
	}
	return true, nil
}

func (c *inMemoryCache) Expire(key string, duration time.Duration) error {
	obj, ok := c.store.get(key)
	if !ok {
		return ErrNoSuchKey
	}
	obj.neverExpire = duration == NeverExpire
	obj.expiredAt = time.Now().Add(duration)
	c.store.set(key, obj)
	return nil
}

type inMemoryCacheFactory struct {
}

func (f *inMemoryCacheFactory) Type() string {
	return TypeInMemory
}

func (f *inMemoryCacheFactory) Create(opts options.DynamicOptions, stopCh <-chan struct{}) (Interface, error) {
	var option InMemoryOptions
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &option,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(opts); err != nil {
		return nil, err
	}
	return NewInMemoryCache(&option, stopCh)
}

func init() {
	RegisterFactory(&inMemoryCacheFactory{})
}
