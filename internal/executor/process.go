package executor

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/quocvuong92/devos-ai/internal/apperr"
	"github.com/quocvuong92/devos-ai/internal/constants"
)

// ProcessInfo describes one running process.
type ProcessInfo struct {
	PID  int32
	Name string
	User string
}

// osProcess is the subset of *process.Process that Processes needs.
type osProcess interface {
	PID() int32
	Name(ctx context.Context) (string, error)
	Username(ctx context.Context) (string, error)
	Kill(ctx context.Context) error
}

type gopsProcess struct{ p *process.Process }

func (g gopsProcess) PID() int32 { return g.p.Pid }

func (g gopsProcess) Name(ctx context.Context) (string, error) { return g.p.NameWithContext(ctx) }

func (g gopsProcess) Username(ctx context.Context) (string, error) {
	return g.p.UsernameWithContext(ctx)
}

func (g gopsProcess) Kill(ctx context.Context) error { return g.p.KillWithContext(ctx) }

func snapshot(ctx context.Context) ([]osProcess, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]osProcess, len(procs))
	for i, p := range procs {
		out[i] = gopsProcess{p}
	}
	return out, nil
}

// Processes implements ProcessManager with gopsutil and the platform's
// application launcher.
type Processes struct {
	GOOS    string
	Timeout time.Duration

	snapshot func(ctx context.Context) ([]osProcess, error)
	lookPath func(file string) (string, error)
}

// NewProcesses creates a ProcessManager for the running platform.
func NewProcesses() *Processes {
	return &Processes{
		GOOS:     runtime.GOOS,
		Timeout:  constants.DefaultCommandTimeout,
		snapshot: snapshot,
		lookPath: exec.LookPath,
	}
}

// List returns every process whose name can be read, sorted by name then PID.
// Processes that exit during the scan are skipped.
func (p *Processes) List(ctx context.Context) ([]ProcessInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	procs, err := p.snapshot(ctx)
	if err != nil {
		return nil, apperr.New(apperr.SubprocessFailure, "list processes", err)
	}

	infos := make([]ProcessInfo, 0, len(procs))
	for _, proc := range procs {
		name, err := proc.Name(ctx)
		if err != nil || name == "" {
			continue
		}
		user, err := proc.Username(ctx)
		if err != nil {
			user = "?"
		}
		infos = append(infos, ProcessInfo{PID: proc.PID(), Name: name, User: user})
	}

	sort.Slice(infos, func(i, j int) bool {
		a, b := strings.ToLower(infos[i].Name), strings.ToLower(infos[j].Name)
		if a != b {
			return a < b
		}
		return infos[i].PID < infos[j].PID
	})
	return infos, nil
}

// Kill terminates every process named exactly name.
func (p *Processes) Kill(ctx context.Context, name string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	procs, err := p.snapshot(ctx)
	if err != nil {
		return 0, apperr.New(apperr.SubprocessFailure, "list processes", err)
	}

	var (
		killed  int
		lastErr error
	)
	for _, proc := range procs {
		n, err := proc.Name(ctx)
		if err != nil || n != name {
			continue
		}
		if err := proc.Kill(ctx); err != nil {
			lastErr = err
			continue
		}
		killed++
	}

	switch {
	case killed > 0:
		return killed, nil
	case lastErr != nil:
		return 0, apperr.New(apperr.SubprocessFailure, "kill "+name, lastErr)
	default:
		return 0, apperr.Errorf(apperr.NotFound, "App %s not found", name)
	}
}

// Open launches an application by name. On macOS and Windows the platform
// launcher is run to completion; elsewhere the binary is started from PATH
// and left running.
func (p *Processes) Open(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Errorf(apperr.InvalidArgument, "Usage: !open <app>")
	}

	switch p.GOOS {
	case "darwin":
		return p.runLauncher(ctx, name, "open", "-a", name)
	case "windows":
		return p.runLauncher(ctx, name, "cmd", "/c", "start", "", name)
	}

	bin, err := p.lookPath(name)
	if err != nil {
		return apperr.Errorf(apperr.NotFound, "App %s not found", name)
	}
	cmd := exec.Command(bin)
	if err := cmd.Start(); err != nil {
		return apperr.New(apperr.SubprocessFailure, "Error opening app", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (p *Processes) runLauncher(ctx context.Context, app, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.Errorf(apperr.SubprocessFailure, "Opening %s timed out after %s", app, p.Timeout)
	}
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return apperr.Errorf(apperr.SubprocessFailure, "Error opening app: %s", msg)
	}
	return apperr.New(apperr.SubprocessFailure, "Error opening app", err)
}
