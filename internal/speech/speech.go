// Package speech delivers spoken feedback through an external text-to-speech
// command. Speech is strictly fire-and-forget: the engine never waits for an
// utterance, a new utterance supersedes any in-flight one, and a missing or
// failing synthesizer is absorbed silently.
package speech

import (
	"os/exec"
	"runtime"
	"sync"
)

// Announcer speaks short feedback messages to the user.
type Announcer interface {
	// Speak utters the text. Implementations must not block on the speech
	// duration and must swallow synthesis failures.
	Speak(text string, priority bool)
}

// CommandAnnouncer shells out to a local TTS binary (`say` on macOS,
// `espeak` elsewhere). Any utterance still playing is cancelled when a new
// one arrives.
type CommandAnnouncer struct {
	voice string
	mu    sync.Mutex
	cmd   *exec.Cmd
}

// NewCommandAnnouncer creates an announcer for the given voice. An empty
// voice falls back to a Swedish default appropriate for the platform.
func NewCommandAnnouncer(voice string) *CommandAnnouncer {
	if voice == "" {
		if runtime.GOOS == "darwin" {
			voice = "Alva"
		} else {
			voice = "sv"
		}
	}
	return &CommandAnnouncer{voice: voice}
}

// Speak starts the TTS subprocess and returns immediately. A previous
// in-flight utterance is killed first; an unavailable binary is a no-op.
func (a *CommandAnnouncer) Speak(text string, priority bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cancelLocked()

	cmd := buildCommand(a.voice, text)
	if cmd == nil {
		return
	}
	if err := cmd.Start(); err != nil {
		return
	}
	a.cmd = cmd

	// Reap the process without holding up the caller.
	go cmd.Wait()
}

// Close cancels any in-flight utterance.
func (a *CommandAnnouncer) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelLocked()
}

func (a *CommandAnnouncer) cancelLocked() {
	if a.cmd != nil && a.cmd.Process != nil {
		a.cmd.Process.Kill()
	}
	a.cmd = nil
}

// buildCommand picks the first available synthesizer, or nil when none is
// installed.
func buildCommand(voice, text string) *exec.Cmd {
	if path, err := exec.LookPath("say"); err == nil {
		return exec.Command(path, "-v", voice, text)
	}
	if path, err := exec.LookPath("espeak"); err == nil {
		return exec.Command(path, "-v", voice, text)
	}
	return nil
}

// Nop is an Announcer that discards everything, for tests and headless runs.
type Nop struct{}

// Speak discards the message.
func (Nop) Speak(text string, priority bool) {}
