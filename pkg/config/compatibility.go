package config

import (
	"github.com/hashicorp/go-version"
)

// torchCompatibility records which CUDA toolkit versions a torch release
// shipped conda packages for.
type torchCompatibility struct {
	Torch string
	CUDAs []string
}

// The matrix only spans the releases this tool is ever asked to pin. It is
// checked at validation time so a bad pin fails before any package install
// starts, not twenty minutes in.
var torchCompatibilityMatrix = []torchCompatibility{
	{Torch: "1.4.0", CUDAs: []string{"9.2", "10.0", "10.1"}},
	{Torch: "1.5.0", CUDAs: []string{"9.2", "10.1", "10.2"}},
	{Torch: "1.5.1", CUDAs: []string{"9.2", "10.1", "10.2"}},
	{Torch: "1.6.0", CUDAs: []string{"9.2", "10.1", "10.2"}},
	{Torch: "1.7.0", CUDAs: []string{"9.2", "10.1", "10.2", "11.0"}},
	{Torch: "1.7.1", CUDAs: []string{"9.2", "10.1", "10.2", "11.0"}},
	{Torch: "1.8.0", CUDAs: []string{"10.1", "10.2", "11.1"}},
}

// CUDAVersionsForTorch returns the CUDA toolkit versions known to work with
// the given torch release, or nil if the release is not in the matrix.
func CUDAVersionsForTorch(torch string) []string {
	tv, err := version.NewVersion(torch)
	if err != nil {
		return nil
	}
	for _, compat := range torchCompatibilityMatrix {
		cv, err := version.NewVersion(compat.Torch)
		if err != nil {
			continue
		}
		if cv.Equal(tv) {
			return compat.CUDAs
		}
	}
	return nil
}

// TorchSupportsCUDA reports whether the torch release shipped a build for the
// given CUDA toolkit. Torch releases missing from the matrix are allowed
// through so a newer pin doesn't require a matrix update.
func TorchSupportsCUDA(torch, cuda string) bool {
	supported := CUDAVersionsForTorch(torch)
	if supported == nil {
		return true
	}
	want, err := version.NewVersion(cuda)
	if err != nil {
		return false
	}
	for _, s := range supported {
		sv, err := version.NewVersion(s)
		if err != nil {
			continue
		}
		if sv.Equal(want) {
			return true
		}
	}
	return false
}
