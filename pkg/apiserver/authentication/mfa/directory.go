/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package mfa

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"
	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/server/options"
)

// PreferLowestOrder is the arbitration convention: when several providers
// could satisfy a request, the one with the lowest order wins, i.e. the
// least escalated applicable factor is preferred. Ties break on id for
// determinism. Order direction is configuration convention; this comparator
// is the single place it is encoded.
func PreferLowestOrder(a, b Provider) bool {
	if a.Order() != b.Order() {
		return a.Order() < b.Order()
	}
	return a.ID() < b.ID()
}

// Directory holds all configured multifactor providers, keyed by id. It is
// populated once at startup from configuration; no runtime scanning.
type Directory struct {
	providers sync.Map
}

func NewDirectory(providers ...Provider) *Directory {
	d := &Directory{}
	for _, p := range providers {
		d.Register(p)
	}
	return d
}

func (d *Directory) Register(p Provider) {
	if _, loaded := d.providers.LoadOrStore(p.ID(), p); loaded {
		d.providers.Store(p.ID(), p)
		klog.Warningf("multifactor provider %s registered twice, keeping the later registration", p.ID())
		return
	}
	klog.V(4).Infof("registered multifactor provider %s with order %d", p.ID(), p.Order())
}

func (d *Directory) Lookup(id string) (Provider, bool) {
	if obj, ok := d.providers.Load(id); ok {
		return obj.(Provider), true
	}
	return nil, false
}

// List returns all providers sorted by PreferLowestOrder.
func (d *Directory) List() []Provider {
	all := make([]Provider, 0)
	d.providers.Range(func(key, value any) bool {
		all = append(all, value.(Provider))
		return true
	})
	sort.SliceStable(all, func(i, j int) bool {
		return PreferLowestOrder(all[i], all[j])
	})
	return all
}

// ProviderFactory creates providers of one mechanism type from free-form
// options.
type ProviderFactory interface {
	// Type unique type of the mechanism
	Type() string
	Create(opts options.DynamicOptions) (Provider, error)
}

var providerFactories = map[string]ProviderFactory{}

func RegisterProviderFactory(factory ProviderFactory) {
	providerFactories[factory.Type()] = factory
}

// ProviderOptions is one configured provider entry.
type ProviderOptions struct {
	// ID is the provider id and webflow event name, e.g. "mfa-totp".
	ID string `json:"id" yaml:"id" mapstructure:"id"`

	// Type selects the registered factory; defaults to the generic one.
	Type string `json:"type,omitempty" yaml:"type" mapstructure:"type"`

	Order       int    `json:"order" yaml:"order" mapstructure:"order"`
	FailureMode string `json:"failureMode,omitempty" yaml:"failureMode" mapstructure:"failureMode"`

	Bypass *BypassOptions `json:"bypass,omitempty" yaml:"bypass" mapstructure:"bypass"`

	// Provider holds mechanism specific options.
	Provider options.DynamicOptions `json:"provider,omitempty" yaml:"provider" mapstructure:"provider"`
}

// NewDirectoryFromOptions builds the provider directory from configuration.
// A provider whose factory fails is skipped with an error log rather than
// aborting startup, decoupling external mechanism dependencies.
func NewDirectoryFromOptions(entries []ProviderOptions) *Directory {
	directory := NewDirectory()
	for _, entry := range entries {
		provider, err := newProvider(entry)
		if err != nil {
			klog.Errorf("failed to create multifactor provider %s: %v", entry.ID, err)
			continue
		}
		directory.Register(provider)
	}
	return directory
}

func newProvider(entry ProviderOptions) (Provider, error) {
	if entry.ID == "" {
		return nil, fmt.Errorf("provider id is empty")
	}
	if entry.Type == "" || entry.Type == typeGeneric {
		return newGenericProvider(entry)
	}
	factory, ok := providerFactories[entry.Type]
	if !ok {
		return nil, fmt.Errorf("provider type %s is not supported", entry.Type)
	}
	opts := entry.Provider
	if opts == nil {
		opts = options.DynamicOptions{}
	}
	opts["id"] = entry.ID
	opts["order"] = entry.Order
	opts["failureMode"] = entry.FailureMode
	return factory.Create(opts)
}

const typeGeneric = "Generic"

func newGenericProvider(entry ProviderOptions) (Provider, error) {
	p := NewProvider(entry.ID, entry.Order).
		WithFailureMode(ParseFailureMode(entry.FailureMode)).
		WithBypass(NewBypassEvaluator(entry.Bypass))
	if entry.Provider != nil {
		// generic providers accept no mechanism options beyond the bypass
		var extra struct{}
		if err := mapstructure.Decode(entry.Provider, &extra); err != nil {
			return nil, err
		}
	}
	return p, nil
}
