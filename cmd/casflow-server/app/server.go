/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package app

import (
	"fmt"

	"github.com/spf13/cobra"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/klog/v2"

	"casflow.io/casflow/cmd/casflow-server/app/options"
	"casflow.io/casflow/pkg/config"
	"casflow.io/casflow/pkg/utils/signals"
)

func NewServerCommand() *cobra.Command {
	s := options.NewServerRunOptions()

	// Load configuration from file
	conf, err := config.TryLoadFromDisk()
	if err == nil {
		s = &options.ServerRunOptions{
			Config: conf,
		}
	} else {
		klog.Warningf("configuration file not loaded: %v", err)
	}

	cmd := &cobra.Command{
		Use: "casflow-server",
		Long: `The CasFlow server is the single sign-on core: it authenticates
principals, arbitrates multifactor requirements per request and manages the
ticket-granting state that backs the protocol front ends.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := s.Validate(); len(errs) != 0 {
				return utilerrors.NewAggregate(errs)
			}
			return Run(s, signals.SetupSignalHandler())
		},
		SilenceUsage: true,
	}

	fs := cmd.Flags()
	namedFlagSets := s.Flags()
	for _, f := range namedFlagSets.FlagSets {
		fs.AddFlagSet(f)
	}

	usageFmt := "Usage:\n  %s\n"
	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n"+usageFmt, cmd.Long, cmd.UseLine())
		cliflag.PrintSections(cmd.OutOrStdout(), namedFlagSets, 0)
	})
	return cmd
}

func Run(s *options.ServerRunOptions, stopCh <-chan struct{}) error {
	server, err := s.NewSSOServer(stopCh)
	if err != nil {
		return err
	}
	return server.Run(stopCh)
}
