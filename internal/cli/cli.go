// Package cli defines the mediaosd command tree and turns argv into an Invocation.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rbright/mediaosd/internal/action"
	"github.com/rbright/mediaosd/internal/config"
	"github.com/rbright/mediaosd/internal/version"
)

type Command string

const (
	CommandHelp    Command = "help"
	CommandAction  Command = "action"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
)

// Invocation is the parsed command line.
type Invocation struct {
	Command    Command
	Action     action.Action
	ConfigPath string
	Verbose    bool
	Overrides  config.Overrides
}

// UsageError marks argv problems. Callers exit with status 2.
type UsageError struct {
	Err   error
	Usage string
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

type flagValues struct {
	configPath      string
	verbose         bool
	duration        config.Duration
	backend         string
	color           string
	fontDescription string
	filled          string
	halfFilled      string
	empty           string
}

// Parse runs the cobra tree over args. Help output goes to out.
func Parse(args []string, out io.Writer) (Invocation, error) {
	inv := Invocation{Command: CommandHelp}
	flags := &flagValues{}
	root := newRootCommand(&inv, flags)
	if args == nil {
		// cobra falls back to os.Args when given nil.
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(io.Discard)

	if err := root.Execute(); err != nil {
		return Invocation{}, &UsageError{Err: err, Usage: root.UsageString()}
	}
	return inv, nil
}

func newRootCommand(inv *Invocation, flags *flagValues) *cobra.Command {
	root := &cobra.Command{
		Use:   "mediaosd [flags] <v|m|b> ...",
		Short: "Change volume, microphone or brightness and show a transient OSD",
		Long: `mediaosd performs one media control action, prints the resulting label,
and shows it in a short-lived on-screen display.

Only one display is alive at a time: invoking mediaosd while a display is
showing replaces its label and extends its lifetime instead of opening another.`,
		Example: `  mediaosd v up 5
  mediaosd v down 5
  mediaosd v mute
  mediaosd m mute
  mediaosd --duration 3s b up 10`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv.Command = CommandHelp
			return cmd.Help()
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file path (default: $XDG_CONFIG_HOME/mediaosd/config.toml)")
	pf.BoolVar(&flags.verbose, "verbose", false, "log at debug level")
	pf.Var(&flags.duration, "duration", "seconds (or Go duration) per lifetime cycle")
	pf.StringVar(&flags.backend, "backend", "", "display backend: hypr, desktop or none")
	pf.StringVar(&flags.color, "color", "", "display color as #RRGGBB or #RRGGBBAA")
	pf.StringVar(&flags.fontDescription, "font-description", "", "font description, e.g. \"Monospace 13\"")
	pf.StringVar(&flags.filled, "filled", "", "progress bar filled character")
	pf.StringVar(&flags.halfFilled, "half-filled", "", "progress bar half filled character")
	pf.StringVar(&flags.empty, "empty", "", "progress bar empty character")

	actionRun := func(target string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := action.Parse(append([]string{target}, args...))
			if err != nil {
				return err
			}
			inv.Command = CommandAction
			inv.Action = a
			fillCommon(cmd, inv, flags)
			return nil
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "v <up|down> N | v mute",
			Short: "Change output volume by N percent or toggle its mute",
			Args:  cobra.RangeArgs(1, 2),
			RunE:  actionRun("v"),
		},
		&cobra.Command{
			Use:   "m mute",
			Short: "Toggle microphone mute",
			Args:  cobra.ExactArgs(1),
			RunE:  actionRun("m"),
		},
		&cobra.Command{
			Use:   "b <up|down> N",
			Short: "Change screen brightness by N percent",
			Args:  cobra.ExactArgs(2),
			RunE:  actionRun("b"),
		},
		&cobra.Command{
			Use:   "doctor",
			Short: "Check configuration, devices and display backend readiness",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				inv.Command = CommandDoctor
				fillCommon(cmd, inv, flags)
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				inv.Command = CommandVersion
				return nil
			},
		},
	)
	return root
}

// fillCommon copies persistent flags into inv. Only flags given on the command line
// become overrides so config file values survive.
func fillCommon(cmd *cobra.Command, inv *Invocation, flags *flagValues) {
	inv.ConfigPath = flags.configPath
	inv.Verbose = flags.verbose

	changed := cmd.Flags().Changed
	if changed("duration") {
		d := flags.duration
		inv.Overrides.Duration = &d
	}
	stringOverride := func(name string, value string) *string {
		if !changed(name) {
			return nil
		}
		return &value
	}
	inv.Overrides.Backend = stringOverride("backend", flags.backend)
	inv.Overrides.Color = stringOverride("color", flags.color)
	inv.Overrides.FontDescription = stringOverride("font-description", flags.fontDescription)
	inv.Overrides.Filled = stringOverride("filled", flags.filled)
	inv.Overrides.HalfFilled = stringOverride("half-filled", flags.halfFilled)
	inv.Overrides.Empty = stringOverride("empty", flags.empty)
}

// IsUsageError reports whether err came from argv parsing.
func IsUsageError(err error) bool {
	var usage *UsageError
	return errors.As(err, &usage)
}

// FormatUsageError renders err the way the CLI prints it to stderr.
func FormatUsageError(err error) string {
	var usage *UsageError
	if errors.As(err, &usage) {
		return fmt.Sprintf("error: %v\n\n%s", usage.Err, usage.Usage)
	}
	return fmt.Sprintf("error: %v\n", err)
}
