package cmd

import (
	"fmt"
	"io"

	"github.com/quatton/jarvice/pkg/jsdk/jerr"
	"github.com/spf13/cobra"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

// reportError prints err once and returns the process exit code.
func reportError(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	if jerr.IsCode(err, jerr.CodeUsage) {
		return exitUsage
	}
	return exitFailure
}

// usageArgs reports argument count errors as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return jerr.New(jerr.CodeUsage, err)
		}
		return nil
	}
}
