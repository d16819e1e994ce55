package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mholt/archiver/v3"

	"github.com/speechlab/fastenv/pkg/config"
	"github.com/speechlab/fastenv/pkg/download"
	"github.com/speechlab/fastenv/pkg/tools"
	"github.com/speechlab/fastenv/pkg/util/console"
	"github.com/speechlab/fastenv/pkg/util/files"
)

// Plan assembles the provisioning sequence. The miniconda step is only
// included when the operator asked for it.
func (p *Provisioner) Plan() Plan {
	plan := Plan{}
	if p.opts.WithConda {
		plan = append(plan, p.minicondaStep())
	}
	plan = append(plan,
		p.condaEnvStep(),
		p.toolchainStep(),
		p.pytorchStep(),
		p.apexStep(),
		p.requirementsStep(),
		p.wandbLoginStep(),
		p.checkpointsStep(),
		p.smokeTestStep(),
		p.datasetStep(),
	)
	return plan
}

func (p *Provisioner) minicondaStep() Step {
	return Step{
		Name: "miniconda",
		Desc: "download and run the Miniconda installer",
		Skip: p.existsSkip(p.layout.MinicondaRoot()),
		Run: func(ctx context.Context) error {
			if !console.IsTerminal() {
				return fmt.Errorf("the Miniconda installer is interactive, run from a terminal")
			}

			scratch := p.layout.Scratch()
			if err := os.MkdirAll(scratch, 0o755); err != nil {
				return err
			}

			installer := filepath.Join(scratch, filepath.Base(p.cfg.MinicondaURL))
			if err := download.File(ctx, p.cfg.MinicondaURL, installer); err != nil {
				return err
			}

			console.Warnf("When the installer asks for an install prefix, use %s, not your home directory.", p.layout.MinicondaRoot())
			ok, err := console.InteractiveBool{
				Prompt:         "Run the installer now?",
				Default:        true,
				NonDefaultFlag: "--conda=false",
			}.Read()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("miniconda install declined by operator")
			}

			if err := tools.RunInstaller(ctx, scratch, installer, nil); err != nil {
				return err
			}
			return os.Remove(installer)
		},
	}
}

func (p *Provisioner) condaEnvStep() Step {
	return Step{
		Name: "conda-env",
		Desc: fmt.Sprintf("create conda environment %s with python %s", p.layout.EnvName(), p.cfg.Python),
		Skip: p.existsSkip(p.layout.EnvDir()),
		Run: func(ctx context.Context) error {
			conda := tools.NewConda(p.layout.CondaBin())
			return conda.CreateEnv(ctx, p.layout.EnvName(), p.cfg.Python)
		},
	}
}

func (p *Provisioner) toolchainStep() Step {
	return Step{
		Name: "toolchain",
		Desc: fmt.Sprintf("install GCC/G++ %s into the environment", p.cfg.GCC),
		Skip: p.existsSkip(p.layout.EnvBin("x86_64-conda_cos6-linux-gnu-cc")),
		Run: func(ctx context.Context) error {
			conda := tools.NewConda(p.layout.CondaBin())
			return conda.Install(ctx, p.layout.EnvName(), "",
				"gcc_linux-64="+p.cfg.GCC,
				"gxx_linux-64="+p.cfg.GCC,
			)
		},
	}
}

func (p *Provisioner) pytorchStep() Step {
	return Step{
		Name: "pytorch",
		Desc: fmt.Sprintf("install pytorch %s with CUDA toolkit %s", p.cfg.Torch, p.cfg.CUDAToolkit),
		Run: func(ctx context.Context) error {
			conda := tools.NewConda(p.layout.CondaBin())
			conda.Env = p.env()
			return conda.Install(ctx, p.layout.EnvName(), "pytorch",
				"pytorch="+p.cfg.Torch,
				"torchvision="+p.cfg.Torchvision,
				"cudatoolkit="+p.cfg.CUDAToolkit,
			)
		},
	}
}

func (p *Provisioner) apexStep() Step {
	return Step{
		Name: "apex",
		Desc: "clone and build NVIDIA Apex with C++ and CUDA extensions",
		Skip: p.existsSkip(p.layout.ApexDir()),
		Run: func(ctx context.Context) error {
			if err := tools.NewGit().Clone(ctx, p.cfg.ApexRepo, p.layout.ApexDir()); err != nil {
				return err
			}
			pip := tools.NewPip(p.layout.EnvBin("pip"))
			pip.Env = p.env()
			return pip.InstallLocal(ctx, p.layout.ApexDir(), "--cpp_ext", "--cuda_ext")
		},
	}
}

func (p *Provisioner) requirementsStep() Step {
	return Step{
		Name: "requirements",
		Desc: "install the project's Python requirements",
		Run: func(ctx context.Context) error {
			manifest := filepath.Join(p.layout.ProjectDir(), "requirements.txt")
			p.reportRequirements(manifest)

			pip := tools.NewPip(p.layout.EnvBin("pip"))
			pip.Env = p.env()
			return pip.InstallRequirements(ctx, p.layout.ProjectDir(), "requirements.txt")
		},
	}
}

// reportRequirements gives the operator a summary of what the install is
// about to pull in. Parse problems are debug noise, never a failure: pip is
// the authority on the manifest.
func (p *Provisioner) reportRequirements(manifest string) {
	reqs, err := config.ReadRequirements(manifest)
	if err != nil {
		console.Debugf("could not read %s: %s", manifest, err)
		return
	}
	pinned := 0
	for _, req := range reqs {
		if req.Parsed {
			pinned++
		} else {
			console.Debugf("unpinned requirement: %s", req.Literal)
		}
	}
	console.Infof("Installing %d requirements (%d pinned)", len(reqs), pinned)
}

func (p *Provisioner) wandbLoginStep() Step {
	return Step{
		Name: "wandb-login",
		Desc: "log in to Weights & Biases",
		Run: func(ctx context.Context) error {
			wandb := tools.NewWandb(p.layout.EnvBin("wandb"))
			wandb.Env = p.env()
			return wandb.Login(ctx, p.cfg.WandbHost)
		},
	}
}

func (p *Provisioner) checkpointsStep() Step {
	return Step{
		Name: "checkpoints",
		Desc: "download pretrained model checkpoints",
		Skip: p.checkpointsPresent,
		Run: func(ctx context.Context) error {
			scripts := []string{"scripts/download_fastpitch.sh", "scripts/download_waveglow.sh"}
			if p.haveScripts(scripts) {
				for _, script := range scripts {
					if err := tools.RunScript(ctx, p.layout.ProjectDir(), script, p.env()); err != nil {
						return err
					}
				}
				return nil
			}

			console.Debug("helper scripts not found, fetching checkpoints directly")
			specs := make([]download.Spec, 0, len(p.cfg.Checkpoints))
			for _, ckpt := range p.cfg.Checkpoints {
				specs = append(specs, download.Spec{
					Name: ckpt.Name,
					URL:  ckpt.URL,
					Dest: filepath.Join(p.layout.PretrainedDir(), ckpt.File),
				})
			}
			return download.Batch(ctx, specs)
		},
	}
}

func (p *Provisioner) smokeTestStep() Step {
	return Step{
		Name: "smoke-test",
		Desc: "run inference against the pretrained checkpoints",
		Run: func(ctx context.Context) error {
			if err := os.MkdirAll(p.layout.OutputDir(), 0o755); err != nil {
				return err
			}

			python := tools.NewPython(p.layout.EnvBin("python"))
			python.Env = p.env()
			return python.Run(ctx, p.layout.ProjectDir(), "inference.py", p.inferenceArgs()...)
		},
	}
}

func (p *Provisioner) inferenceArgs() []string {
	args := []string{"--cuda"}
	for _, ckpt := range p.cfg.Checkpoints {
		args = append(args, "--"+ckpt.Name, filepath.Join("pretrained_models", ckpt.File))
	}
	return append(args,
		"--wn-channels", "256",
		"-i", "phrases/devset10.tsv",
		"-o", "output/wavs_devset10",
	)
}

func (p *Provisioner) datasetStep() Step {
	return Step{
		Name: "dataset",
		Desc: "download and prepare the training dataset",
		Skip: p.existsSkip(filepath.Join(p.layout.ProjectDir(), "LJSpeech-1.1")),
		Run: func(ctx context.Context) error {
			scripts := []string{"scripts/download_dataset.sh", "scripts/prepare_dataset.sh"}
			if p.haveScripts(scripts) {
				for _, script := range scripts {
					if err := tools.RunScript(ctx, p.layout.ProjectDir(), script, p.env()); err != nil {
						return err
					}
				}
				return nil
			}

			console.Debug("helper scripts not found, fetching the dataset archive directly")
			archive := filepath.Join(p.layout.Scratch(), filepath.Base(p.cfg.DatasetURL))
			if err := download.File(ctx, p.cfg.DatasetURL, archive); err != nil {
				return err
			}
			if err := archiver.Unarchive(archive, p.layout.ProjectDir()); err != nil {
				return fmt.Errorf("failed to extract %s: %w", archive, err)
			}
			return os.Remove(archive)
		},
	}
}

// existsSkip builds a Skip func that treats the presence of path as "already
// done".
func (p *Provisioner) existsSkip(path string) func() (bool, string) {
	return func() (bool, string) {
		exists, err := files.Exists(path)
		if err != nil || !exists {
			return false, ""
		}
		return true, path + " already exists"
	}
}

func (p *Provisioner) checkpointsPresent() (bool, string) {
	for _, ckpt := range p.cfg.Checkpoints {
		exists, err := files.Exists(filepath.Join(p.layout.PretrainedDir(), ckpt.File))
		if err != nil || !exists {
			return false, ""
		}
	}
	return true, "all checkpoints already downloaded"
}

func (p *Provisioner) haveScripts(scripts []string) bool {
	for _, script := range scripts {
		exists, err := files.Exists(filepath.Join(p.layout.ProjectDir(), script))
		if err != nil || !exists {
			return false
		}
	}
	return true
}
