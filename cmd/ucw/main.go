// Command ucw wraps arbitrary external commands: it parses their help
// output into a normalized spec, runs them through a uniform argument
// binding layer, and generates standalone plugin source for them.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
