package cmd

import (
	"context"
	"os"
	"runtime"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// defaultFallbackTermWidth is used when no terminal size can be detected,
// e.g. in CI.
const defaultFallbackTermWidth = 120

var (
	openTerminalIOFn = openTerminalIO
	termGetSize      = term.GetSize
	stdinIsPiped     = func() bool { return !term.IsTerminal(int(os.Stdin.Fd())) }
)

// detectTerminalSize returns the best-effort terminal width/height by probing
// stdout, stderr, and stdin, then falling back to $COLUMNS.
func detectTerminalSize() (int, int) {
	for _, f := range []*os.File{os.Stdout, os.Stderr, os.Stdin} {
		if w, h, err := termGetSize(int(f.Fd())); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return defaultFallbackTermWidth, 0
}

// getProgramOptions reopens the terminal when stdin is piped so the
// inspector still receives keys and resize events. The returned cleanup
// must be called once the program exits.
func getProgramOptions() ([]tea.ProgramOption, func()) {
	if !stdinIsPiped() {
		return nil, func() {}
	}
	ttyIn, ttyOut, err := openTerminalIOFn()
	if err != nil {
		// No controlling terminal: the TUI runs but cannot read keys.
		return nil, func() {}
	}
	cleanup := func() {
		_ = ttyIn.Close()
		if ttyOut != nil && ttyOut != ttyIn {
			_ = ttyOut.Close()
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithInput(ttyIn)}
	if ttyOut != nil {
		opts = append(opts, tea.WithOutput(ttyOut), withTTYResizeWatcher(ctx, ttyOut))
	}
	return opts, func() {
		cancel()
		cleanup()
	}
}

func openTerminalIO() (*os.File, *os.File, error) {
	in, out := terminalDeviceNames(runtime.GOOS)
	input, err := os.OpenFile(in, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	if out == "" || out == in {
		return input, input, nil
	}
	output, err := os.OpenFile(out, os.O_RDWR, 0)
	if err != nil {
		return input, nil, err
	}
	return input, output, nil
}

func terminalDeviceNames(goos string) (input string, output string) {
	if goos == "windows" {
		return "CONIN$", "CONOUT$"
	}
	return "/dev/tty", "/dev/tty"
}

// withTTYResizeWatcher polls the terminal size and sends resize messages,
// since resize signals do not reach a reopened tty on every platform. It
// stops when ctx is cancelled.
func withTTYResizeWatcher(ctx context.Context, out *os.File) tea.ProgramOption {
	return func(p *tea.Program) {
		go func() {
			t := time.NewTicker(250 * time.Millisecond)
			defer t.Stop()
			lastW, lastH := 0, 0
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					w, h, err := termGetSize(int(out.Fd()))
					if err != nil || (w == lastW && h == lastH) {
						continue
					}
					lastW, lastH = w, h
					p.Send(tea.WindowSizeMsg{Width: w, Height: h})
				}
			}
		}()
	}
}
