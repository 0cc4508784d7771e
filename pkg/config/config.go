/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"casflow.io/casflow/pkg/apiserver/authentication/mfa"
	authoptions "casflow.io/casflow/pkg/apiserver/authentication/options"
	"casflow.io/casflow/pkg/apiserver/webflow/resolver/trigger"
	"casflow.io/casflow/pkg/services"
	"casflow.io/casflow/pkg/simple/client/cache"
	"casflow.io/casflow/pkg/ticket/registry"
)

const (
	// DefaultConfigurationName is the expected config file name, without
	// the extension.
	DefaultConfigurationName = "casflow"

	// DefaultConfigurationPath is searched after the working directory.
	DefaultConfigurationPath = "/etc/casflow"
)

// Config aggregates every component's options. File values load first,
// command line flags override them.
type Config struct {
	CacheOptions          *cache.Options                     `json:"cache,omitempty" yaml:"cache,omitempty" mapstructure:"cache"`
	AuthenticationOptions *authoptions.AuthenticationOptions `json:"authentication,omitempty" yaml:"authentication,omitempty" mapstructure:"authentication"`
	TicketOptions         *registry.Options                  `json:"ticket,omitempty" yaml:"ticket,omitempty" mapstructure:"ticket"`
	MultifactorProviders  []mfa.ProviderOptions              `json:"multifactorProviders,omitempty" yaml:"multifactorProviders,omitempty" mapstructure:"multifactorProviders"`
	TriggerOptions        *trigger.Options                   `json:"triggers,omitempty" yaml:"triggers,omitempty" mapstructure:"triggers"`
	RegisteredServices    []*services.RegisteredService      `json:"registeredServices,omitempty" yaml:"registeredServices,omitempty" mapstructure:"registeredServices"`
}

func New() *Config {
	return &Config{
		CacheOptions:          cache.NewOptions(),
		AuthenticationOptions: authoptions.NewAuthenticationOptions(),
		TicketOptions:         registry.NewOptions(),
		TriggerOptions:        trigger.NewOptions(),
	}
}

// TryLoadFromDisk loads the configuration file, tolerating its absence so
// a flags-only deployment still starts.
func TryLoadFromDisk() (*Config, error) {
	viper.SetConfigName(DefaultConfigurationName)
	viper.AddConfigPath(".")
	viper.AddConfigPath(DefaultConfigurationPath)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, err
		}
		return nil, errors.Wrap(err, "error parsing configuration file")
	}

	conf := New()
	if err := viper.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling configuration")
	}
	return conf, nil
}
