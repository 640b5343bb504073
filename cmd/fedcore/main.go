// Command fedcore builds and checks federated computation fragments.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/fedcore/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.GetExitCode(err))
}
