// Package app maps one mediaosd invocation onto its action, its label and its role
// in the singleton OSD session.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rbright/mediaosd/internal/action"
	"github.com/rbright/mediaosd/internal/cli"
	"github.com/rbright/mediaosd/internal/config"
	"github.com/rbright/mediaosd/internal/control"
	"github.com/rbright/mediaosd/internal/display"
	"github.com/rbright/mediaosd/internal/doctor"
	"github.com/rbright/mediaosd/internal/feedback"
	"github.com/rbright/mediaosd/internal/fsm"
	"github.com/rbright/mediaosd/internal/label"
	"github.com/rbright/mediaosd/internal/logging"
	"github.com/rbright/mediaosd/internal/session"
	"github.com/rbright/mediaosd/internal/version"
)

// Runner executes one invocation. Zero-value hooks select the live system.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Executor control.Executor
	Renderer display.Renderer
	Sleeper  session.Sleeper
	Feedback CuePlayer
}

// CuePlayer emits the audible cue for an action.
type CuePlayer interface {
	Play(ctx context.Context, cue feedback.Cue) error
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

// Execute returns the process exit code: 0 success, 1 runtime failure, 2 usage error.
func (r Runner) Execute(ctx context.Context, args []string) int {
	inv, err := cli.Parse(args, r.Stdout)
	if err != nil {
		fmt.Fprint(r.Stderr, cli.FormatUsageError(err))
		return 2
	}

	switch inv.Command {
	case cli.CommandHelp:
		return 0
	case cli.CommandVersion:
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logger := r.Logger
	if logger == nil {
		logRuntime, err := logging.New(logging.Options{Verbose: inv.Verbose})
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
			return 1
		}
		defer func() { _ = logRuntime.Close() }()
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(inv.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	cfgLoaded.Config = inv.Overrides.Apply(cfgLoaded.Config)
	warnings, err := config.Validate(cfgLoaded.Config)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("invalid flag override", "error", err.Error())
		return 2
	}
	if !cfgLoaded.Exists {
		warnings = append(cfgLoaded.Warnings, warnings...)
	}
	r.reportWarnings(logger, warnings)

	logger.Info("command start",
		"command", inv.Command,
		"config", cfgLoaded.Path,
	)

	switch inv.Command {
	case cli.CommandDoctor:
		report := doctor.Run(ctx, cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandAction:
		return r.commandAction(ctx, inv.Action, cfgLoaded.Config, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", inv.Command)
		return 2
	}
}

// commandAction performs a, prints the resulting label, then joins the OSD session.
func (r Runner) commandAction(ctx context.Context, a action.Action, cfg config.Config, logger *slog.Logger) int {
	ex := r.Executor
	if ex == nil {
		sys := control.NewSystem(cfg.AudioOptions(), cfg.BacklightController())
		defer sys.Close()
		ex = sys
	}

	if err := control.Perform(ctx, ex, a); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("action failed", "action", a.String(), "error", err.Error())
		return 1
	}
	text, err := label.For(ctx, ex, a, cfg.Progress.Bar())
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("label failed", "action", a.String(), "error", err.Error())
		return 1
	}
	fmt.Fprintln(r.Stdout, text)
	logger.Debug("action performed", "action", a.String(), "label", text)
	r.playCue(ctx, cfg, a, logger)

	coordinator := r.coordinator(cfg, logger)
	outcome, err := coordinator.Run(ctx, text)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("session interrupted", "session_id", outcome.SessionID)
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	logger.Info("command complete",
		"role", outcome.Role,
		"session_id", outcome.SessionID,
		"retried", outcome.Retried,
		"refreshes", outcome.Refreshes,
	)
	if outcome.Role != fsm.StateOwner && outcome.Role != fsm.StateClient {
		return 1
	}
	return 0
}

// playCue is best-effort: a missing audio server never fails the invocation.
func (r Runner) playCue(ctx context.Context, cfg config.Config, a action.Action, logger *slog.Logger) {
	if !cfg.Feedback.Enable {
		return
	}
	var player CuePlayer = r.Feedback
	if player == nil {
		player = cfg.FeedbackPlayer()
	}
	if err := player.Play(ctx, feedback.CueFor(a)); err != nil {
		logger.Debug("feedback cue failed", "action", a.String(), "error", err.Error())
	}
}

func (r Runner) coordinator(cfg config.Config, logger *slog.Logger) Coordinator {
	newRenderer := func() (display.Renderer, error) {
		return display.New(cfg.DisplayOptions())
	}
	if r.Renderer != nil {
		newRenderer = func() (display.Renderer, error) { return r.Renderer, nil }
	}

	return Coordinator{
		LockPath:     cfg.Session.LockPath(),
		SocketPath:   cfg.Session.SocketPath(),
		Duration:     cfg.Session.Duration.Duration(),
		ReadTimeout:  cfg.Session.ReadTimeout.Duration(),
		SendTimeout:  cfg.Session.SendTimeout.Duration(),
		PollInterval: cfg.Display.PollInterval.Duration(),
		RetryAsOwner: cfg.Session.RetryAsOwner,
		NewRenderer:  newRenderer,
		Sleeper:      r.Sleeper,
		Logger:       logger,
	}
}

func (r Runner) reportWarnings(logger *slog.Logger, warnings []config.Warning) {
	for _, w := range warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}
}
