/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package cache

import (
	"sync"
	"time"

	"casflow.io/casflow/pkg/server/options"
)

const TypeFake = "Fake"

// fakeCache is a plain concurrent map without key enumeration, modeling
// backends such as memcached that cannot scan their key space. Registries
// built on it report unknown counts. Used for debugging and tests.
type fakeCache struct {
	store sync.Map
}

func NewFakeCache() Interface {
	return &fakeCache{}
}

func (f *fakeCache) Keys(pattern string) ([]string, error) {
	return nil, ErrKeyScanUnsupported
}

func (f *fakeCache) Get(key string) (string, error) {
	if value, ok := f.store.Load(key); ok {
		return value.(string), nil
	}
	return "", ErrNoSuchKey
}

func (f *fakeCache) Set(key string, value string, duration time.Duration) error {
	f.store.Store(key, value)
	return nil
}

func (f *fakeCache) Del(keys ...string) error {
	for _, key := range keys {
		f.store.Delete(key)
	}
	return nil
}

func (f *fakeCache) Exists(keys ...string) (bool, error) {
	for _, key := range keys {
		if _, ok := f.store.Load(key); !ok {
			return false, nil
		}
	}
	return true, nil
}

func (f *fakeCache) Expire(key string, duration time.Duration) error {
	_, err := f.Get(key)
	return err
}

type fakeCacheFactory struct {
}

func (f *fakeCacheFactory) Type() string {
	return TypeFake
}

func (f *fakeCacheFactory) Create(opts options.DynamicOptions, stopCh <-chan struct{}) (Interface, error) {
	return NewFakeCache(), nil
}

func init() {
	RegisterFactory(&fakeCacheFactory{})
}
