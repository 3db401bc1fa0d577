package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"bennypowers.dev/sfcgen/internal/assemble"
	"bennypowers.dev/sfcgen/internal/collections"
	"bennypowers.dev/sfcgen/internal/compiler"
	"bennypowers.dev/sfcgen/internal/config"
	"bennypowers.dev/sfcgen/internal/log"
	"bennypowers.dev/sfcgen/internal/sfc"
	"bennypowers.dev/sfcgen/internal/transpile"
)

// builder compiles documents on disk and remembers each document's last
// descriptor for hot-reload decisions
type builder struct {
	cfg       *config.Config
	assembler *assemble.Assembler
	cache     *sfc.Cache
	report    *reporter
}

func newBuilder(cfg *config.Config, report *reporter) (*builder, error) {
	a := assemble.New(cfg.AssembleOptions())
	a.Script = compiler.ScriptCompiler{}
	a.Template = compiler.StaticTemplateCompiler{}
	a.Resolver = compiler.FSResolver{Root: cfg.Root}

	var tsconfig string
	if cfg.Tsconfig != "" {
		raw, err := transpile.ReadTsconfig(cfg.Tsconfig)
		if err != nil {
			return nil, err
		}
		tsconfig = raw
	}
	a.Transpiler = transpile.Esbuild{TsconfigRaw: tsconfig, Minify: cfg.Production}

	return &builder{
		cfg:       cfg,
		assembler: a,
		cache:     sfc.NewCache(),
		report:    report,
	}, nil
}

// discover returns the documents under the root matching any pattern
func (b *builder) discover(patterns []string) ([]string, error) {
	fsys := os.DirFS(b.cfg.Root)
	found := collections.NewSet[string]()
	for _, pattern := range patterns {
		pattern, err := b.relativePattern(pattern)
		if err != nil {
			return nil, err
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", pattern, err)
		}
		for _, m := range matches {
			found.Add(filepath.Join(b.cfg.Root, filepath.FromSlash(m)))
		}
	}
	return collections.Sorted(found), nil
}

// relativePattern rewrites an absolute pattern relative to the root
func (b *builder) relativePattern(pattern string) (string, error) {
	if !filepath.IsAbs(pattern) {
		return filepath.ToSlash(filepath.Clean(pattern)), nil
	}
	rel, err := filepath.Rel(b.cfg.Root, pattern)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the root %s", pattern, b.cfg.Root)
	}
	return filepath.ToSlash(rel), nil
}

// matches reports whether path is selected by any pattern
func (b *builder) matches(path string, patterns []string) bool {
	rel, err := filepath.Rel(b.cfg.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		pattern, err := b.relativePattern(pattern)
		if err != nil {
			continue
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// compileAll compiles every path, at most cfg.Concurrency at a time. A
// failing document does not stop the others; the returned error reports
// that at least one failed.
func (b *builder) compileAll(ctx context.Context, paths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Concurrency)

	var (
		mu     sync.Mutex
		failed int
	)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := b.compileFile(ctx, path); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	b.report.summary(len(paths)-failed, failed)
	if failed > 0 {
		return errReported
	}
	return nil
}

// compileFile compiles one document and writes its module. Failures are
// reported before they are returned.
func (b *builder) compileFile(ctx context.Context, path string) error {
	source, err := os.ReadFile(path) //nolint:gosec // G304: paths come from globs under the project root
	if err != nil {
		b.report.failure(path, err)
		return err
	}

	res, d, err := b.assembler.Transform(ctx, string(source), path, b.cache.Get(path))
	if err != nil {
		b.report.failure(path, err)
		return err
	}
	if len(res.Errors) > 0 {
		b.report.parseErrors(res.Errors)
		return errReported
	}
	b.cache.Record(path, d)

	if err := b.write(path, res); err != nil {
		b.report.failure(path, err)
		return err
	}
	return nil
}

// outputPath is where the module compiled from path is written
func (b *builder) outputPath(path string) string {
	if b.cfg.OutDir == "" {
		return path + ".js"
	}
	rel, err := filepath.Rel(b.cfg.Root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.Join(b.cfg.OutDir, rel) + ".js"
}

func (b *builder) write(path string, res *assemble.Result) error {
	out := b.outputPath(path)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	code := res.Code
	if b.cfg.SourceMap && res.Map != nil && res.Map.Mappings != "" {
		res.Map.File = filepath.Base(out)
		data, err := res.Map.JSON()
		if err != nil {
			return fmt.Errorf("failed to encode source map: %w", err)
		}
		if err := os.WriteFile(out+".map", data, 0o644); err != nil { //nolint:gosec // G306: build output is world-readable
			return fmt.Errorf("failed to write source map: %w", err)
		}
		if !strings.HasSuffix(code, "\n") {
			code += "\n"
		}
		code += "//# sourceMappingURL=" + filepath.Base(out) + ".map\n"
	}

	if err := os.WriteFile(out, []byte(code), 0o644); err != nil { //nolint:gosec // G306: build output is world-readable
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	log.Info("Wrote %s", out)
	return nil
}
