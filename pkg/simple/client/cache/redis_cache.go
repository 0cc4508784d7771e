/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package cache

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis"
	"github.com/mitchellh/mapstructure"
	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/server/options"
)

const TypeRedis = "Redis"

// RedisOptions contains the connection settings of the redis backend.
// URL has the form redis://:password@host:port/db, rediss enables TLS.
type RedisOptions struct {
	URL string `json:"url" yaml:"url" mapstructure:"url"`
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(option *RedisOptions, stopCh <-chan struct{}) (Interface, error) {
	opts, err := parseURL(option.URL)
	if err != nil {
		klog.Error(err)
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping().Err(); err != nil {
		klog.Error("unable to reach redis host ", err)
		client.Close()
		return nil, err
	}

	if stopCh != nil {
		go func() {
			<-stopCh
			if err := client.Close(); err != nil {
				klog.Error(err)
			}
		}()
	}

	return &redisCache{client: client}, nil
}

// ref https://github.com/go-redis/redis/blob/v6.15.2/options.go#L163
func parseURL(redisURL string) (*redis.Options, error) {
	o := &redis.Options{Network: "tcp"}
	u, err := url.Parse(redisURL)
	if err != nil {
		return nil, err
	}

	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, errors.New("invalid redis URL scheme: " + u.Scheme)
	}

	if u.User != nil {
		if p, ok := u.User.Password(); ok {
			o.Password = p
		}
	}

	if val := u.Query().Get("maxRetries"); val != "" {
		if o.MaxRetries, err = strconv.Atoi(val); err != nil {
			return nil, errors.New("invalid options")
		}
	}

	if val := u.Query().Get("idleTimeout"); val != "" {
		if o.IdleTimeout, err = time.ParseDuration(val); err != nil {
			return nil, errors.New("invalid options")
		}
	}

	if val := u.Query().Get("dialTimeout"); val != "" {
		if o.DialTimeout, err = time.ParseDuration(val); err != nil {
			return nil, errors.New("invalid options")
		}
	}

	if val := u.Query().Get("poolSize"); val != "" {
		if o.PoolSize, err = strconv.Atoi(val); err != nil {
			return nil, errors.New("invalid options")
		}
	}

	h, p, err := net.SplitHostPort(u.Host)
	if err != nil {
		h = u.Host
	}
	if h == "" {
		h = "localhost"
	}
	if p == "" {
		p = "6379"
	}
	o.Addr = net.JoinHostPort(h, p)

	f := strings.FieldsFunc(u.Path, func(r rune) bool {
		return r == '/'
	})
	switch len(f) {
	case 0:
		o.DB = 0
	case 1:
		if o.DB, err = strconv.Atoi(f[0]); err != nil {
			return nil, fmt.Errorf("invalid redis database number: %q", f[0])
		}
	default:
		return nil, errors.New("invalid redis URL path: " + u.Path)
	}

	if u.Scheme == "rediss" {
		o.TLSConfig = &tls.Config{ServerName: h}
	}
	return o, nil
}

func (r *redisCache) Keys(pattern string) ([]string, error) {
	return r.client.Keys(pattern).Result()
}

func (r *redisCache) Get(key string) (string, error) {
	value, err := r.client.Get(key).Result()
	if err == redis.Nil {
		return "", ErrNoSuchKey
	}
	return value, err
}

func (r *redisCache) Set(key string, value string, duration time.Duration) error {
	return r.client.Set(key, value, duration).Err()
}

func (r *redisCache) Del(keys ...string) error {
	return r.client.Del(keys...).Err()
}

func (r *redisCache) Exists(keys ...string) (bool, error) {
	existedKeys, err := r.client.Exists(keys...).Result()
	if err != nil {
		return false, err
	}
	return existedKeys == int64(len(keys)), nil
}

func (r *redisCache) Expire(key string, duration time.Duration) error {
	return r.client.Expire(key, duration).Err()
}

type redisCacheFactory struct {
}

func (f *redisCacheFactory) Type() string {
	return TypeRedis
}

func (f *redisCacheFactory) Create(opts options.DynamicOptions, stopCh <-chan struct{}) (Interface, error) {
	var option RedisOptions
	if err := mapstructure.Decode(opts, &option); err != nil {
		return nil, err
	}
	return NewRedisCache(&option, stopCh)
}

func init() {
	RegisterFactory(&redisCacheFactory{})
}
