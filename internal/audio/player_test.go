package audio

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestPlayer_Command(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		installed map[string]bool
		wantBin   string
		wantErr   string
	}{
		{name: "macOS", goos: "darwin", wantBin: "afplay"},
		{name: "windows", goos: "windows", wantBin: "cmd"},
		{name: "linux mpg123", goos: "linux", installed: map[string]bool{"mpg123": true, "aplay": true}, wantBin: "mpg123"},
		{name: "linux ffplay", goos: "linux", installed: map[string]bool{"ffplay": true}, wantBin: "ffplay"},
		{name: "linux aplay", goos: "linux", installed: map[string]bool{"aplay": true}, wantBin: "aplay"},
		{name: "linux none", goos: "linux", wantErr: "no audio player found"},
		{name: "plan9", goos: "plan9", wantErr: "unsupported platform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Player{
				goos: tt.goos,
				lookPath: func(bin string) (string, error) {
					if tt.installed[bin] {
						return "/usr/bin/" + bin, nil
					}
					return "", errors.New("not found")
				},
			}

			cmd, err := p.command("song.mp3")
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if filepath.Base(cmd.Args[0]) != tt.wantBin {
				t.Errorf("Expected %s, got %s", tt.wantBin, cmd.Args[0])
			}
			if cmd.Args[len(cmd.Args)-1] != "song.mp3" {
				t.Errorf("Expected file as last argument, got %v", cmd.Args)
			}
		})
	}
}

func TestPlayer_StopWithoutPlayback(t *testing.T) {
	p := NewPlayer()
	p.Stop()
	if p.Playing() {
		t.Error("Expected player to be idle")
	}
}
