package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/quatton/jarvice/apps/jarvice/cmd"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "jarvice crashed: %v\n", r)
			if os.Getenv("JARVICE_DEBUG") != "" {
				debug.PrintStack()
			}
			os.Exit(1)
		}
	}()

	cmd.Execute()
}
