package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"
)

// Spec names one file in a batch download.
type Spec struct {
	Name string
	URL  string
	Dest string
}

const prefixLen = 12

func barPrefix(name string) string {
	if len(name) > prefixLen {
		return name[:prefixLen]
	}
	return name + strings.Repeat(" ", prefixLen-len(name))
}

// Batch downloads all specs concurrently, one progress bar per file. The
// first failure cancels the remaining transfers.
func Batch(ctx context.Context, specs []Spec) error {
	group, ctx := errgroup.WithContext(ctx)
	progress := mpb.NewWithContext(ctx)

	for _, spec := range specs {
		spec := spec
		group.Go(func() error {
			return fetchWithBar(ctx, progress, spec)
		})
	}

	err := group.Wait()
	progress.Wait()
	return err
}

func fetchWithBar(ctx context.Context, progress *mpb.Progress, spec Spec) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, spec.URL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", spec.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s returned status %d", spec.Name, spec.URL, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(spec.Dest), 0o755); err != nil {
		return err
	}

	bar := progress.New(resp.ContentLength,
		mpb.BarStyle().Rbound("|"),
		mpb.PrependDecorators(
			decor.Name(barPrefix(spec.Name)+" "),
			decor.Counters(decor.SizeB1024(0), "% .2f / % .2f"),
		),
		mpb.AppendDecorators(
			decor.EwmaETA(decor.ET_STYLE_GO, 30),
			decor.Name(" ] "),
			decor.EwmaSpeed(decor.SizeB1024(0), "% .2f", 30),
		),
	)
	defer bar.Abort(false)

	tmp, err := os.CreateTemp(filepath.Dir(spec.Dest), filepath.Base(spec.Dest)+".partial-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	reader := bar.ProxyReader(resp.Body)
	defer reader.Close()

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to download %s: %w", spec.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), spec.Dest)
}
