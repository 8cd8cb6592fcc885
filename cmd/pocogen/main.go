// Package main contains the pocogen command line tool. It uses the cobra
// package for the command tree.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
