// Package doctor runs readiness diagnostics for config, session files, devices, and the display backend.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rbright/mediaosd/internal/audio"
	"github.com/rbright/mediaosd/internal/config"
	"github.com/rbright/mediaosd/internal/display"
	"github.com/rbright/mediaosd/internal/hypr"
	"github.com/rbright/mediaosd/internal/ipc"
	"github.com/rbright/mediaosd/internal/lock"
	"github.com/rbright/mediaosd/internal/notify"
)

const probeTimeout = 500 * time.Millisecond

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded) Report {
	checks := []Check{}

	configMessage := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		configMessage = fmt.Sprintf("%q not found; using defaults", cfg.Path)
	}
	checks = append(checks, Check{Name: "config", Pass: true, Message: configMessage})

	checks = append(checks, checkSession(ctx, cfg.Config.Session))
	checks = append(checks, checkAudio(ctx, cfg.Config))
	checks = append(checks, checkBinary("brightnessctl", "brightness actions"))
	checks = append(checks, checkDisplay(ctx, cfg.Config.Display)...)
	if f := cfg.Config.Feedback; f.Enable && strings.TrimSpace(f.File) != "" {
		checks = append(checks, checkBinary("pw-play", "feedback sound file"))
	}

	return Report{Checks: checks}
}

// checkSession reports whether an owner is live and whether the lock can be claimed.
func checkSession(ctx context.Context, s config.SessionConfig) Check {
	const name = "session"
	socketPath := s.SocketPath()

	live, err := ipc.Probe(ctx, socketPath, probeTimeout)
	if err != nil {
		return Check{Name: name, Pass: false, Message: err.Error()}
	}
	if live {
		return Check{Name: name, Pass: true, Message: fmt.Sprintf("owner listening on %s", socketPath)}
	}

	held, err := lock.TryAcquire(s.LockPath())
	switch {
	case err == nil:
		_ = held.Release()
		return Check{Name: name, Pass: true, Message: fmt.Sprintf("idle; lock %s is free", s.LockPath())}
	case errors.Is(err, lock.ErrContended):
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("lock %s is held but %s is not accepting refreshes", s.LockPath(), socketPath)}
	default:
		return Check{Name: name, Pass: false, Message: err.Error()}
	}
}

// checkAudio connects to Pulse and resolves the configured sink and source.
func checkAudio(ctx context.Context, cfg config.Config) Check {
	mixer, err := audio.Open(ctx, cfg.AudioOptions())
	if err != nil {
		return Check{Name: "audio", Pass: false, Message: err.Error()}
	}
	defer mixer.Close()
	return Check{Name: "audio", Pass: true, Message: fmt.Sprintf("sink %q, source %q", mixer.SinkName(), mixer.SourceName())}
}

// checkDisplay validates the tools and session the configured backend depends on.
func checkDisplay(ctx context.Context, d config.DisplayConfig) []Check {
	switch strings.ToLower(strings.TrimSpace(d.Backend)) {
	case display.BackendDesktop:
		if _, err := notify.Connect(d.AppName); err != nil {
			return []Check{{Name: "display.desktop", Pass: false, Message: err.Error()}}
		}
		return []Check{{Name: "display.desktop", Pass: true, Message: "session bus reachable"}}
	case display.BackendNone:
		return []Check{{Name: "display", Pass: true, Message: "backend disabled"}}
	default:
		checks := []Check{
			checkEnv("HYPRLAND_INSTANCE_SIGNATURE", func(v string) bool {
				return strings.TrimSpace(v) != ""
			}, "Hyprland session detected", "HYPRLAND_INSTANCE_SIGNATURE is empty"),
			checkBinary("hyprctl", "hypr display backend"),
		}
		if !checks[1].Pass {
			return checks
		}
		runCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		monitor, err := hypr.QueryFocusedMonitor(runCtx)
		if err != nil {
			return append(checks, Check{Name: "display.hypr", Pass: false, Message: err.Error()})
		}
		return append(checks, Check{Name: "display.hypr", Pass: true, Message: fmt.Sprintf("focused monitor %s", monitor)})
	}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}
