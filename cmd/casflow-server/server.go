/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package main

import (
	"fmt"
	"os"

	"casflow.io/casflow/cmd/casflow-server/app"
)

func main() {
	cmd := app.NewServerCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
