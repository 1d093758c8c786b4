// Package main provides the galadrielcss CLI: compiling Nenyr sources
// into a CSS stylesheet, either once (build) or continuously (start).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
