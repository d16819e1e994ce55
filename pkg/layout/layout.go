// Package layout derives the on-disk layout of a FastPitch development
// environment from the target user and the machine's hostname.
package layout

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

const (
	// DefaultScratchRoot is the shared scratch disk on the training boxes.
	DefaultScratchRoot = "/disk/scratch1"

	envPrefix  = "fastpitch"
	projectRel = "FastPitches/PyTorch/SpeechSynthesis/FastPitch"
)

// Layout holds the two inputs every path is templated on. All methods are
// pure so that the same (user, host) pair always yields the same layout.
type Layout struct {
	User        string
	Host        string
	ScratchRoot string
}

// New builds a layout for the given user on the given host. Empty user
// defaults to the invoking user's identity; empty host defaults to the short
// hostname of this machine.
func New(userName, host, scratchRoot string) (*Layout, error) {
	if userName == "" {
		u, err := user.Current()
		if err != nil {
			return nil, err
		}
		userName = u.Username
	}
	if host == "" {
		h, err := ShortHostname()
		if err != nil {
			return nil, err
		}
		host = h
	}
	if scratchRoot == "" {
		scratchRoot = DefaultScratchRoot
	}
	return &Layout{User: userName, Host: host, ScratchRoot: scratchRoot}, nil
}

// ShortHostname returns the machine's hostname truncated at the first dot.
func ShortHostname() (string, error) {
	h, err := os.Hostname()
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(h, '.'); i >= 0 {
		h = h[:i]
	}
	return h, nil
}

// Scratch is the user-scoped scratch directory, e.g. /disk/scratch1/bob.
func (l *Layout) Scratch() string {
	return filepath.Join(l.ScratchRoot, l.User)
}

// MinicondaRoot is where the Miniconda installer is expected to install to.
func (l *Layout) MinicondaRoot() string {
	return filepath.Join(l.Scratch(), "miniconda3")
}

// CondaBin is the absolute path of the conda executable. Invoking conda by
// absolute path makes the run independent of the operator's shell startup
// files.
func (l *Layout) CondaBin() string {
	return filepath.Join(l.MinicondaRoot(), "bin", "conda")
}

// EnvName is derived from the short hostname, e.g. fastpitch_gpu07.
func (l *Layout) EnvName() string {
	return envPrefix + "_" + l.Host
}

// EnvDir is the prefix of the conda environment.
func (l *Layout) EnvDir() string {
	return filepath.Join(l.MinicondaRoot(), "envs", l.EnvName())
}

// EnvBin returns the path of an executable inside the environment.
func (l *Layout) EnvBin(name string) string {
	return filepath.Join(l.EnvDir(), "bin", name)
}

// ProjectDir is the FastPitch checkout inside the scratch directory.
func (l *Layout) ProjectDir() string {
	return filepath.Join(l.Scratch(), projectRel)
}

// ApexDir is where the Apex source is cloned to.
func (l *Layout) ApexDir() string {
	return filepath.Join(l.ProjectDir(), "apex")
}

// OutputDir holds inference artifacts.
func (l *Layout) OutputDir() string {
	return filepath.Join(l.ProjectDir(), "output")
}

// PretrainedDir holds downloaded model checkpoints.
func (l *Layout) PretrainedDir() string {
	return filepath.Join(l.ProjectDir(), "pretrained_models")
}
