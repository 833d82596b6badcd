package gen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dave/jennifer/jen"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// formatOptions only formats and groups imports; jennifer already
// manages the import list.
var formatOptions = &imports.Options{
	FormatOnly: true,
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
}

// WriterMetrics tracks generation performance.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	RenderTime     time.Duration
	FormatTime     time.Duration
}

// fileTask is a single file to write.
type fileTask struct {
	name  string // file name, relative to the target directory.
	build func() *jen.File
}

// writer renders jennifer files in parallel, formats them and writes them
// to the target directory.
type writer struct {
	cfg *Config

	mu      sync.Mutex
	metrics WriterMetrics
}

func newWriter(cfg *Config) *writer {
	return &writer{cfg: cfg}
}

// writeAll writes files with at most cfg.Workers files in flight. The
// first error cancels the remaining tasks.
func (w *writer) writeAll(ctx context.Context, files []fileTask) error {
	if err := w.cfg.Fs.MkdirAll(w.cfg.Target, 0o755); err != nil {
		return NewGenerationError(PhaseWrite, w.cfg.Target, "create output directory", err)
	}
	w.mu.Lock()
	w.metrics = WriterMetrics{}
	w.mu.Unlock()
	for _, f := range files {
		if err := w.checkOverwrite(f.name); err != nil {
			return err
		}
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.cfg.Workers)
	for _, f := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.write(f)
			}
		})
	}
	return eg.Wait()
}

// checkOverwrite refuses to replace a file that does not carry the
// generated header, unless forced.
func (w *writer) checkOverwrite(name string) error {
	if w.cfg.Force {
		return nil
	}
	path := filepath.Join(w.cfg.Target, name)
	b, err := afero.ReadFile(w.cfg.Fs, path)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return NewGenerationError(PhaseWrite, name, "read existing file", err)
	case !bytes.HasPrefix(b, []byte("// "+w.cfg.Header)):
		return NewGenerationError(PhaseWrite, name, "refusing to overwrite a file that was not generated", nil)
	}
	return nil
}

func (w *writer) write(f fileTask) error {
	start := time.Now()
	var buf bytes.Buffer
	if err := f.build().Render(&buf); err != nil {
		return NewGenerationError(PhaseRender, f.name, "", err)
	}
	rendered := time.Now()

	path := filepath.Join(w.cfg.Target, f.name)
	out, err := imports.Process(path, buf.Bytes(), formatOptions)
	if err != nil {
		// Keep the unformatted output for debugging.
		_ = afero.WriteFile(w.cfg.Fs, path+".error", buf.Bytes(), 0o644)
		return NewGenerationError(PhaseFormat, f.name, "unformatted output written to "+path+".error", err)
	}
	formatted := time.Now()
	if err := afero.WriteFile(w.cfg.Fs, path, out, 0o644); err != nil {
		return NewGenerationError(PhaseWrite, f.name, "", err)
	}

	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(out))
	w.metrics.RenderTime += rendered.Sub(start)
	w.metrics.FormatTime += formatted.Sub(rendered)
	w.mu.Unlock()
	return nil
}

// newFile returns a jennifer file of the generated package.
func (w *writer) newFile() *jen.File {
	f := jen.NewFile(w.cfg.Package)
	f.HeaderComment(w.cfg.Header)
	f.ImportNames(importNames)
	return f
}
