// Package doctor runs preflight checks against the machine before any
// provisioning starts. Checks only warn; a failing check never blocks a run,
// since the operator may be provisioning exactly because something is
// missing.
package doctor

import (
	"fmt"
	"os/exec"

	"golang.org/x/sys/unix"

	"github.com/speechlab/fastenv/pkg/layout"
	"github.com/speechlab/fastenv/pkg/util/files"
)

// A full LJSpeech checkout plus conda envs lands somewhere around 30GB.
const minFreeBytes = 50 * 1024 * 1024 * 1024

var requiredTools = []string{"bash", "git"}

type Result struct {
	Name string
	Err  error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Run executes all checks for the layout and CUDA home.
func Run(l *layout.Layout, cudaHome string) []Result {
	results := []Result{}
	for _, tool := range requiredTools {
		results = append(results, checkTool(tool))
	}
	results = append(results,
		checkScratch(l),
		checkDiskSpace(l.ScratchRoot),
		checkCUDAHome(cudaHome),
		checkGPU(),
	)
	return results
}

func checkTool(name string) Result {
	r := Result{Name: name + " on PATH"}
	if _, err := exec.LookPath(name); err != nil {
		r.Err = fmt.Errorf("%s not found on PATH", name)
	}
	return r
}

func checkScratch(l *layout.Layout) Result {
	r := Result{Name: "scratch directory writable"}
	exists, err := files.Exists(l.ScratchRoot)
	if err != nil {
		r.Err = err
		return r
	}
	if !exists {
		r.Err = fmt.Errorf("%s does not exist", l.ScratchRoot)
		return r
	}
	// The user-scoped dir may not exist yet; writability of the root is what
	// matters for creating it.
	probe := l.ScratchRoot
	if e, err := files.Exists(l.Scratch()); err == nil && e {
		probe = l.Scratch()
	}
	if !files.IsWritable(probe) {
		r.Err = fmt.Errorf("%s is not writable", probe)
	}
	return r
}

func checkDiskSpace(path string) Result {
	r := Result{Name: "free disk space"}
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		r.Err = fmt.Errorf("failed to stat %s: %w", path, err)
		return r
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		r.Err = fmt.Errorf("only %.1f GB free on %s, want at least %d GB",
			float64(free)/(1024*1024*1024), path, minFreeBytes/(1024*1024*1024))
	}
	return r
}

func checkCUDAHome(cudaHome string) Result {
	r := Result{Name: "CUDA toolkit present"}
	isDir, err := files.IsDir(cudaHome)
	if err != nil || !isDir {
		r.Err = fmt.Errorf("%s not found; native builds will fail", cudaHome)
	}
	return r
}

func checkGPU() Result {
	r := Result{Name: "NVIDIA driver loaded"}
	exists, err := files.Exists("/proc/driver/nvidia/version")
	if err != nil {
		r.Err = err
		return r
	}
	if !exists {
		r.Err = fmt.Errorf("/proc/driver/nvidia/version not present")
	}
	return r
}
