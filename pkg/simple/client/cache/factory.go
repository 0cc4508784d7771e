/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package cache

import (
	"fmt"

	"casflow.io/casflow/pkg/server/options"
)

type Factory interface {
	// Type unique type of the backend
	Type() string
	Create(options options.DynamicOptions, stopCh <-chan struct{}) (Interface, error)
}

var factories = map[string]Factory{}

func RegisterFactory(factory Factory) {
	factories[factory.Type()] = factory
}

// New creates a cache of the given type. The options map is decoded by the
// backend factory itself.
func New(option *Options, stopCh <-chan struct{}) (Interface, error) {
	if option == nil || option.Type == "" {
		return nil, fmt.Errorf("cache type is empty")
	}
	factory, ok := factories[option.Type]
	if !ok {
		return nil, fmt.Errorf("cache type %s is not supported", option.Type)
	}
	return factory.Create(option.Options, stopCh)
}
