package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"

	"github.com/speechlab/fastenv/pkg/util/files"
)

// Filename is the optional per-project profile, looked up in the working
// directory.
const Filename = "fastenv.yaml"

// Environment variable overrides. These win over the YAML file.
const (
	ScratchRootEnvVarName = "FASTENV_SCRATCH_ROOT"
	CUDAHomeEnvVarName    = "FASTENV_CUDA_HOME"
	DeviceEnvVarName      = "FASTENV_DEVICE"
)

// Load builds the profile for a run: defaults, overlaid with fastenv.yaml
// from dir if present, overlaid with FASTENV_* environment variables.
func Load(dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, Filename)
	exists, err := files.Exists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := applyEnvironment(cfg); err != nil {
		return nil, err
	}

	cfg.ScratchRoot, err = homedir.Expand(cfg.ScratchRoot)
	if err != nil {
		return nil, err
	}
	cfg.CUDAHome, err = homedir.Expand(cfg.CUDAHome)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvironment(cfg *Config) error {
	if v := os.Getenv(ScratchRootEnvVarName); v != "" {
		cfg.ScratchRoot = v
	}
	if v := os.Getenv(CUDAHomeEnvVarName); v != "" {
		cfg.CUDAHome = v
	}
	if v := os.Getenv(DeviceEnvVarName); v != "" {
		device, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", DeviceEnvVarName, err)
		}
		cfg.Device = device
	}
	return nil
}
