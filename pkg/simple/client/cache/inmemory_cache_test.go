/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package cache

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"k8s.io/apimachinery/pkg/util/sets"
)

var dataSet = map[string]string{
	"casflow:ticket:TGT-1": "session1",
	"casflow:ticket:TGT-2": "session2",
	"casflow:ticket:ST-1":  "grant1",
	"unrelated":            "val",
}

func load(client Interface, data map[string]string) error {
	for k, v := range data {
		if err := client.Set(k, v, NeverExpire); err != nil {
			return err
		}
	}
	return nil
}

func TestInMemoryCacheKeys(t *testing.T) {
	client, err := NewInMemoryCache(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := load(client, dataSet); err != nil {
		t.Fatal(err)
	}

	keys, err := client.Keys("casflow:ticket:*")
	if err != nil {
		t.Fatal(err)
	}
	expected := sets.NewString("casflow:ticket:TGT-1", "casflow:ticket:TGT-2", "casflow:ticket:ST-1")
	if diff := cmp.Diff(sets.NewString(keys...), expected); len(diff) != 0 {
		t.Errorf("keys differ (-got, +expected): %s", diff)
	}
}

func TestInMemoryCacheGetSetDel(t *testing.T) {
	client, err := NewInMemoryCache(nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := client.Get("missing"); err != ErrNoSuchKey {
		t.Errorf("expected ErrNoSuchKey, got %v", err)
	}

	if err := client.Set("foo", "bar", NeverExpire); err != nil {
		t.Fatal(err)
	}
	got, err := client.Get("foo")
	if err != nil {
		t.Fatal(err)
	}
	if got != "bar" {
		t.Errorf("expected bar, got %s", got)
	}

	exists, err := client.Exists("foo")
	if err != nil || !exists {
		t.Errorf("expected foo to exist, got %v %v", exists, err)
	}

	if err := client.Del("foo"); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Get("foo"); err != ErrNoSuchKey {
		t.Errorf("expected ErrNoSuchKey after delete, got %v", err)
	}
}

func TestInMemoryCacheExpiration(t *testing.T) {
	client, err := NewInMemoryCache(nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := client.Set("transient", "val", 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Get("transient"); err != nil {
		t.Fatalf("expected value before expiry, got %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if _, err := client.Get("transient"); err != ErrNoSuchKey {
		t.Errorf("expected ErrNoSuchKey after expiry, got %v", err)
	}

	if err := client.Expire("missing", time.Minute); err != ErrNoSuchKey {
		t.Errorf("expected ErrNoSuchKey, got %v", err)
	}
}

func TestFakeCacheIsNotEnumerable(t *testing.T) {
	client := NewFakeCache()
	if err := client.Set("foo", "bar", NeverExpire); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Keys("*"); err != ErrKeyScanUnsupported {
		t.Errorf("expected ErrKeyScanUnsupported, got %v", err)
	}
	got, err := client.Get("foo")
	if err != nil || got != "bar" {
		t.Errorf("expected bar, got %q %v", got, err)
	}
}
