/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package options

import (
	cliflag "k8s.io/component-base/cli/flag"

	"casflow.io/casflow/pkg/apiserver"
	"casflow.io/casflow/pkg/config"
)

type ServerRunOptions struct {
	*config.Config

	DebugMode bool
}

func NewServerRunOptions() *ServerRunOptions {
	return &ServerRunOptions{
		Config: config.New(),
	}
}

func (s *ServerRunOptions) Flags() (fss cliflag.NamedFlagSets) {
	fs := fss.FlagSet("generic")
	fs.BoolVar(&s.DebugMode, "debug", false, "Don't enable this if you don't know what it means.")

	s.AuthenticationOptions.AddFlags(fss.FlagSet("authentication"), s.AuthenticationOptions)
	s.CacheOptions.AddFlags(fss.FlagSet("cache"), s.CacheOptions)
	s.TicketOptions.AddFlags(fss.FlagSet("ticket"), s.TicketOptions)

	return fss
}

func (s *ServerRunOptions) Validate() []error {
	errs := make([]error, 0)
	errs = append(errs, s.AuthenticationOptions.Validate()...)
	errs = append(errs, s.CacheOptions.Validate()...)
	errs = append(errs, s.TicketOptions.Validate()...)
	return errs
}

// NewSSOServer assembles the server from the merged file and flag options.
func (s *ServerRunOptions) NewSSOServer(stopCh <-chan struct{}) (*apiserver.SSOServer, error) {
	return apiserver.New(s.Config, stopCh)
}
