package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

const appName = "Career Countdown"

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "1.2"

// globalFlags are shared by every command
type globalFlags struct {
	configFile   string
	profilesFile string
	profile      string
	logLevel     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "careercountdown",
		Short: "Count down to retirement",
		Long: `Career Countdown shows how long is left until retirement, computed from a
birthdate, a career start date and a target retirement age. Several named
profiles can be kept in a local profiles file.

With no command the countdown opens in its own window, falling back to the
console when no window can be created.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, app, err := loadRuntime(flags)
			if err != nil {
				return err
			}
			err = runEmbeddedUI(app, config)
			if errors.Is(err, ErrNoDisplay) {
				logger.Warning("gui", "window unavailable, falling back to console", map[string]interface{}{
					"error": err.Error(),
				})
				return runWatch(cmd.Context(), app, config)
			}
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "config.yaml", "Path to YAML configuration file")
	pf.StringVar(&flags.profilesFile, "profiles", "", "Path to profiles JSON file (overrides profiles_file)")
	pf.StringVar(&flags.profile, "profile", "", "Profile to show (overrides default_profile)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		newUICmd(&flags),
		newWebCmd(&flags),
		newWatchCmd(&flags),
		newShowCmd(&flags),
		newProfileCmd(&flags),
		newPDFCmd(&flags),
		newConfigCmd(&flags),
		newAboutCmd(),
	)
	return root
}

// loadConfig reads configuration and applies command-line overrides
func loadConfig(flags globalFlags) (*Config, error) {
	config, err := LoadConfig(flags.configFile)
	if err != nil {
		return nil, err
	}
	if flags.profilesFile != "" {
		config.ProfilesFile = flags.profilesFile
	}
	if flags.profile != "" {
		config.DefaultProfile = flags.profile
	}
	if flags.logLevel != "" {
		config.LogLevel = flags.logLevel
	}
	setupLogging(config.LogLevel)
	return config, nil
}

// loadRuntime reads configuration and opens the profile store
func loadRuntime(flags globalFlags) (*Config, *App, error) {
	config, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	return config, OpenApp(config.ProfilesFile, config.DefaultProfile), nil
}

// signalContext is cancelled on interrupt or terminate
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the countdown in an embedded browser window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, app, err := loadRuntime(*flags)
			if err != nil {
				return err
			}
			if err := runEmbeddedUI(app, config); err != nil {
				return fmt.Errorf("embedded UI error: %w", err)
			}
			return nil
		},
	}
}

func newWebCmd(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the countdown UI and open it in the system browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, app, err := loadRuntime(*flags)
			if err != nil {
				return err
			}
			if addr != "" {
				config.Addr = addr
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return NewWebServer(app, config, config.Addr).Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Web server address (use :0 for auto port)")
	return cmd
}

func newWatchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Show the countdown in the terminal, refreshing every interval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, app, err := loadRuntime(*flags)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), app, config)
		},
	}
}

// runWatch redraws the countdown until interrupted
func runWatch(ctx context.Context, app *App, config *Config) error {
	ctx, stop := signalContext(ctx)
	defer stop()

	ticker := NewTicker(app, NewConsolePresenter(), config.RefreshInterval)
	return ticker.Run(ctx)
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the countdown once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, app, err := loadRuntime(*flags)
			if err != nil {
				return err
			}
			frame := app.Snapshot(time.Now())
			out := cmd.OutOrStdout()
			PrintCountdown(out, frame, false)
			if debug {
				fmt.Fprintln(out)
				spew.Fdump(out, frame)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "Dump the full computed frame")
	return cmd
}

func newProfileCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "List, create, edit, select and delete profiles",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, app, err := loadRuntime(*flags)
			if err != nil {
				return err
			}
			profiles, current := app.Profiles()
			PrintProfiles(cmd.OutOrStdout(), profiles, current, app.Names())
			return nil
		},
	}

	create := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a profile, starting from the current profile's settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, app, err := loadRuntime(*flags)
			if err != nil {
				return err
			}
			p := NewProfilePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			name := ""
			if len(args) == 1 {
				name = args[0]
			} else {
				name = p.PromptName()
			}
			return runNewProfile(cmd.OutOrStdout(), app, p, name)
		},
	}

	edit := &cobra.Command{
		Use:   "edit [name]",
		Short: "Edit a profile (default: the current profile)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, app, err := loadRuntime(*flags)
			if err != nil {
				return err
			}
			name, _ := app.Current()
			if len(args) == 1 {
				name = args[0]
			}
			p := NewProfilePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return runEditProfile(cmd.OutOrStdout(), app, p, name)
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, app, err := loadRuntime(*flags)
			if err != nil {
				return err
			}
			p := NewProfilePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return runDeleteProfile(cmd.OutOrStdout(), app, p, args[0], yes)
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	use := &cobra.Command{
		Use:   "use <name>",
		Short: "Make a profile the one shown at start-up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, app, err := loadRuntime(*flags)
			if err != nil {
				return err
			}
			if err := app.Select(args[0]); err != nil {
				return err
			}
			config.DefaultProfile = args[0]
			if err := SaveConfig(config, flags.configFile); err != nil {
				return fmt.Errorf("could not save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Current profile: %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, create, edit, del, use)
	return cmd
}

// runNewProfile creates name from the current profile's settings and
// offers the profile form for it
func runNewProfile(out io.Writer, app *App, p *ProfilePrompter, name string) error {
	if name == "" {
		return ErrInvalidName
	}
	if _, exists := app.Get(name); exists {
		return fmt.Errorf("%w: Profile '%s' already exists", ErrProfileExists, name)
	}
	_, current := app.Current()
	settings := p.PromptSettings(current)
	if err := app.CreateProfile(name, settings); err != nil {
		return err
	}
	fmt.Fprintf(out, "Profile '%s' has been created.\n", name)
	return nil
}

// runEditProfile shows the profile form and prints what changed
func runEditProfile(out io.Writer, app *App, p *ProfilePrompter, name string) error {
	current, ok := app.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	settings := p.PromptSettings(current)
	diff, err := app.UpdateProfile(name, settings)
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Fprintf(out, "Profile '%s' unchanged.\n", name)
		return nil
	}
	fmt.Fprintf(out, "Profile '%s' has been saved:\n%s", name, diff)
	return nil
}

// runDeleteProfile asks for confirmation and deletes name
func runDeleteProfile(out io.Writer, app *App, p *ProfilePrompter, name string, yes bool) error {
	if len(app.Names()) <= 1 {
		return ErrLastProfile
	}
	if !yes && !p.Confirm(fmt.Sprintf("Are you sure you want to delete the profile '%s'?", name)) {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}
	if err := app.DeleteProfile(name); err != nil {
		return err
	}
	current, _ := app.Current()
	fmt.Fprintf(out, "Profile '%s' has been deleted. Current profile: %s\n", name, current)
	return nil
}

func newPDFCmd(flags *globalFlags) *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Write a PDF countdown report for the current profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, app, err := loadRuntime(*flags)
			if err != nil {
				return err
			}
			frame := app.Snapshot(time.Now())
			data, err := GenerateCountdownPDF(frame)
			if err != nil {
				return fmt.Errorf("error generating PDF report: %w", err)
			}
			if outFile == "" {
				outFile = pdfFilename(frame.Profile, frame.Countdown.Now)
			}
			if err := os.WriteFile(outFile, data, 0644); err != nil {
				return fmt.Errorf("error writing PDF report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PDF report written to %s\n", outFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file (default: career-countdown-<profile>-<date>.pdf)")
	return cmd
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage config.yaml",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(flags.configFile); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", flags.configFile)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			config, err := loadConfig(*flags)
			if err != nil {
				return err
			}
			if err := SaveConfig(config, flags.configFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", flags.configFile)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.AddCommand(initCmd)
	return cmd
}

func newAboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nVersion %s\n", appName, version)
		},
	}
}

// openBrowser opens url in the system browser
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		fmt.Fprintf(os.Stderr, "Cannot open browser on %s\n", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening browser: %v\n", err)
	}
}
