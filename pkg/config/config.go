// Package config holds the provisioning profile: everything about the target
// environment that is pinned rather than derived.
package config

import (
	"fmt"

	"github.com/hashicorp/go-version"

	"github.com/speechlab/fastenv/pkg/errors"
)

// Checkpoint is a pretrained model weight file fetched during the smoke test
// when the project helper scripts are not available.
type Checkpoint struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	File string `yaml:"file"`
}

// Config is the provisioning profile. The zero-value is not usable; start
// from Default and override.
type Config struct {
	ScratchRoot  string `yaml:"scratch_root"`
	CUDAHome     string `yaml:"cuda_home"`
	Device       int    `yaml:"device"`
	MinicondaURL string `yaml:"miniconda_url"`

	Python      string `yaml:"python"`
	GCC         string `yaml:"gcc"`
	Torch       string `yaml:"torch"`
	Torchvision string `yaml:"torchvision"`
	CUDAToolkit string `yaml:"cudatoolkit"`

	ApexRepo    string       `yaml:"apex_repo"`
	DatasetURL  string       `yaml:"dataset_url"`
	WandbHost   string       `yaml:"wandb_host"`
	Checkpoints []Checkpoint `yaml:"checkpoints"`
}

// Default reproduces the environment the original setup targeted: Python 3.8,
// GCC 8.4, PyTorch 1.6 against CUDA toolkit 10.2.
func Default() *Config {
	return &Config{
		ScratchRoot:  "/disk/scratch1",
		CUDAHome:     "/opt/cuda-10.2.89_440_33",
		Device:       1,
		MinicondaURL: "https://repo.anaconda.com/miniconda/Miniconda3-py38_4.8.3-Linux-x86_64.sh",
		Python:       "3.8",
		GCC:          "8.4.0",
		Torch:        "1.6.0",
		Torchvision:  "0.7.0",
		CUDAToolkit:  "10.2",
		ApexRepo:     "https://github.com/NVIDIA/apex",
		DatasetURL:   "https://data.keithito.com/data/speech/LJSpeech-1.1.tar.bz2",
		WandbHost:    "",
		Checkpoints: []Checkpoint{
			{
				Name: "fastpitch",
				URL:  "https://api.ngc.nvidia.com/v2/models/nvidia/fastpitch_pyt_amp_ckpt_v1/versions/20.02.0/files/nvidia_fastpitch_200518.pt",
				File: "fastpitch/nvidia_fastpitch_200518.pt",
			},
			{
				Name: "waveglow",
				URL:  "https://api.ngc.nvidia.com/v2/models/nvidia/waveglow256pyt_fp16/versions/2/files/nvidia_waveglow256pyt_fp16.pt",
				File: "waveglow/nvidia_waveglow256pyt_fp16.pt",
			},
		},
	}
}

// Validate checks that the pinned versions parse and that the pinned
// torch/cudatoolkit pair is one that PyTorch actually shipped wheels for.
func (c *Config) Validate() error {
	for name, v := range map[string]string{
		"python":      c.Python,
		"gcc":         c.GCC,
		"torch":       c.Torch,
		"torchvision": c.Torchvision,
		"cudatoolkit": c.CUDAToolkit,
	} {
		if _, err := version.NewVersion(v); err != nil {
			return errors.InvalidConfig(fmt.Sprintf("invalid %s version %q: %s", name, v, err))
		}
	}

	if c.Device < 0 {
		return errors.InvalidConfig(fmt.Sprintf("device index must be non-negative, got %d", c.Device))
	}

	if !TorchSupportsCUDA(c.Torch, c.CUDAToolkit) {
		return errors.InvalidConfig(fmt.Sprintf(
			"torch %s has no build for CUDA toolkit %s (supported: %v)",
			c.Torch, c.CUDAToolkit, CUDAVersionsForTorch(c.Torch)))
	}
	return nil
}
