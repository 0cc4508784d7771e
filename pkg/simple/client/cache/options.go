/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package cache

import (
	"fmt"

	"github.com/spf13/pflag"

	"casflow.io/casflow/pkg/server/options"
)

type Options struct {
	Type    string                 `json:"type" yaml:"type" mapstructure:"type"`
	Options options.DynamicOptions `json:"options" yaml:"options" mapstructure:"options"`
}

func NewOptions() *Options {
	return &Options{
		Type:    TypeInMemory,
		Options: options.DynamicOptions{},
	}
}

func (o *Options) Validate() []error {
	errs := make([]error, 0)
	if o.Type == "" {
		errs = append(errs, fmt.Errorf("cache type is empty"))
	} else if _, ok := factories[o.Type]; !ok {
		errs = append(errs, fmt.Errorf("cache type %s is not supported", o.Type))
	}
	return errs
}

func (o *Options) AddFlags(fs *pflag.FlagSet, s *Options) {
	fs.StringVar(&o.Type, "cache-type", s.Type,
		"Cache type, one of InMemory, Redis, Fake. The ticket registry may be backed by any of them.")
}
