// Package main is the entry point for the cruft CLI.
package main

import "cruft.dev/pkg/cruft/cmd"

func main() {
	cmd.Execute()
}
