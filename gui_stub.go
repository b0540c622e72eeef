//go:build console

package main

import "fmt"

// runEmbeddedUI is a stub for console-only builds
func runEmbeddedUI(app *App, config *Config) error {
	return fmt.Errorf("%w: console build, use the web or watch command instead", ErrNoDisplay)
}
