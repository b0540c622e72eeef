//go:build !console

package main

import (
	"fmt"
	"os"
	"runtime"

	webview "github.com/webview/webview_go"
)

// runEmbeddedUI starts the web server and opens an embedded browser window
func runEmbeddedUI(app *App, config *Config) error {
	// webview aborts the process when it cannot open a window, so check first
	if !displayAvailable() {
		return ErrNoDisplay
	}

	ws := NewWebServer(app, config, "localhost:0")

	url, cleanup, err := ws.StartForEmbedded()
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	defer cleanup()

	// Create webview window (false = no debug mode)
	w := webview.New(false)
	defer w.Destroy()

	w.SetTitle(config.Window.Title)
	w.SetSize(config.Window.Width, config.Window.Height, webview.HintNone)
	w.Navigate(url)

	// Run blocks until window is closed
	w.Run()

	return nil
}

// displayAvailable reports whether a window can be opened. macOS and
// Windows always have a desktop; elsewhere GTK needs X11 or Wayland.
func displayAvailable() bool {
	switch runtime.GOOS {
	case "darwin", "windows":
		return true
	default:
		return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	}
}
