// Package state persists where the last provisioning run got to, so the
// operator can see what has been done and resume after a failure.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/speechlab/fastenv/pkg/util/console"
	"github.com/speechlab/fastenv/pkg/util/files"
)

// DirEnvVarName overrides the state directory, mainly for tests.
const DirEnvVarName = "FASTENV_STATE_DIR"

type State struct {
	LastStep    string    `json:"lastStep"`
	CompletedAt time.Time `json:"completedAt"`
	Version     string    `json:"version"`
}

// Load reads the state from disk, returning the zero state if it does not
// exist. A corrupt or unreadable file degrades to the zero state with a
// debug message rather than failing the run.
func Load() (*State, error) {
	state := State{}

	p, err := statePath()
	if err != nil {
		return nil, err
	}

	exists, err := files.Exists(p)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &state, nil
	}
	text, err := os.ReadFile(p)
	if err != nil {
		console.Debugf("Failed to read %s: %s", p, err)
		return &state, nil
	}

	if err := json.Unmarshal(text, &state); err != nil {
		console.Debugf("Failed to parse %s: %s", p, err)
		return &State{}, nil
	}

	return &state, nil
}

// Save writes the state to disk.
func Save(s *State) error {
	p, err := statePath()
	if err != nil {
		return err
	}

	bytes, err := json.MarshalIndent(s, "", " ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	return os.WriteFile(p, bytes, 0o600)
}

func stateDir() (string, error) {
	if dir := os.Getenv(DirEnvVarName); dir != "" {
		return dir, nil
	}
	return homedir.Expand("~/.config/fastenv")
}

func statePath() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.json"), nil
}
