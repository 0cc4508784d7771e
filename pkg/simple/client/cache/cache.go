/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package cache

import (
	"errors"
	"time"
)

var NeverExpire = time.Duration(0)

var ErrNoSuchKey = errors.New("no such key")

// ErrKeyScanUnsupported is returned from Keys by backends that cannot
// enumerate their key space. Callers degrade to non-iterable behavior.
var ErrKeyScanUnsupported = errors.New("key scan is not supported by this backend")

type Interface interface {
	// Keys retrieves all keys matching the given pattern, where * matches
	// any sequence of characters. Returns ErrKeyScanUnsupported if the
	// backend cannot enumerate keys.
	Keys(pattern string) ([]string, error)

	// Get retrieves the value of the given key, returns ErrNoSuchKey if
	// the key doesn't exist
	Get(key string) (string, error)

	// Set sets the value and living duration of the given key, zero duration means never expire
	Set(key string, value string, duration time.Duration) error

	// Del deletes the given keys, no error returned if a key doesn't exist
	Del(keys ...string) error

	// Exists checks the existence of the given keys
	Exists(keys ...string) (bool, error)

	// Expire updates the key's expiration time, returns err if the key doesn't exist
	Expire(key string, duration time.Duration) error
}
