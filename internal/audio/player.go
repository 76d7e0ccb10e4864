package audio

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"
)

// Player plays audio files through whatever command line player the
// platform offers. Only one file plays at a time.
type Player struct {
	mu       sync.Mutex
	cmd      *exec.Cmd
	goos     string
	lookPath func(string) (string, error)
}

// NewPlayer creates a player for the running platform
func NewPlayer() *Player {
	return &Player{goos: runtime.GOOS, lookPath: exec.LookPath}
}

// Play starts playback of file in the background, stopping anything
// already playing. done is called with the result when playback ends,
// unless it was stopped.
func (p *Player) Play(file string, done func(error)) error {
	cmd, err := p.command(file)
	if err != nil {
		return err
	}

	p.Stop()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start audio player: %w", err)
	}

	p.mu.Lock()
	p.cmd = cmd
	p.mu.Unlock()

	go func() {
		err := cmd.Wait()

		p.mu.Lock()
		stopped := p.cmd != cmd
		if !stopped {
			p.cmd = nil
		}
		p.mu.Unlock()

		if !stopped && done != nil {
			done(err)
		}
	}()

	return nil
}

// Stop kills the current playback, if any
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	p.cmd = nil
}

// Playing reports whether a file is currently playing
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd != nil
}

// command picks the platform-specific player command
func (p *Player) command(file string) (*exec.Cmd, error) {
	switch p.goos {
	case "darwin":
		return exec.Command("afplay", file), nil
	case "linux":
		// mpg123 first since it handles MP3 files best
		candidates := [][]string{
			{"mpg123", "-q", file},
			{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", file},
			{"play", "-q", file}, // SoX
			{"paplay", file},
			{"aplay", "-q", file},
		}
		for _, c := range candidates {
			if _, err := p.lookPath(c[0]); err == nil {
				return exec.Command(c[0], c[1:]...), nil
			}
		}
		return nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		return exec.Command("cmd", "/c", "start", "/min", file), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", p.goos)
	}
}
