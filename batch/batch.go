// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package batch analyzes many packages concurrently, in the order of their imports.
package batch

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/wdamron/flowtype"
	"github.com/wdamron/flowtype/config"
	"github.com/wdamron/flowtype/diff"
	"github.com/wdamron/flowtype/importer"
	"github.com/wdamron/flowtype/internal/util"
	"github.com/wdamron/flowtype/semantic"
	"github.com/wdamron/flowtype/types"
	"github.com/wdamron/flowtype/vectorize"
)

// Analyzer infers the types of a set of packages. Packages are inferred after the packages they
// import; packages which do not depend on each other are inferred concurrently, each with its
// own inference context.
type Analyzer struct {
	// Prelude is shared by every package; it must be frozen.
	Prelude *flowtype.Environment
	// Importer resolves imports of packages outside the batch; may be nil.
	Importer flowtype.Importer
	// Store, if not nil, resolves imports outside the batch and receives the exports of each
	// analyzed package.
	Store   *importer.Store
	Options flowtype.Options
	// VectorizeParam is the parameter name of row functions when Options.Vectorize is set.
	VectorizeParam string
	// Parallelism limits the packages analyzed concurrently; 0 is unlimited.
	Parallelism int
	Logger      *slog.Logger
}

// Result holds the analysis of a single package.
type Result struct {
	Package *semantic.Package
	Exports *flowtype.PackageExports
	// Type errors of the package
	Errors flowtype.Errors
	// Functions which could not be vectorized
	Warnings flowtype.Errors
	// Changes from the version held by the analyzer's store, if the store held one
	Changes *diff.Report
}

// Path returns the package path of the result.
func (r Result) Path() string { return r.Package.Package }

// ImportCycleError is returned when packages of a batch import each other.
type ImportCycleError struct {
	Packages []string
}

func (e *ImportCycleError) Error() string {
	return "import cycle between packages " + strings.Join(e.Packages, ", ")
}

// New creates an analyzer from a configuration. The analyzer's store is opened at the
// configured cache path and must be closed by the caller.
func New(ctx context.Context, cfg *config.Config, prelude *flowtype.Environment, logger *slog.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	store, err := importer.Open(ctx, cfg.CachePath, logger)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		Prelude:        prelude,
		Store:          store,
		Options:        cfg.Options(logger),
		VectorizeParam: cfg.VectorizeParam,
		Parallelism:    cfg.Parallelism,
		Logger:         logger,
	}, nil
}

// Close closes the analyzer's store, if any.
func (a *Analyzer) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// Analyze infers the types of pkgs. Results are returned in the order of pkgs. Type errors are
// reported within each result; the returned error is reserved for invalid batches, storage
// failures and cancellation.
func (a *Analyzer) Analyze(ctx context.Context, pkgs []*semantic.Package) ([]Result, error) {
	g := util.NewGraph()
	index := make(map[string]int, len(pkgs))
	for i, pkg := range pkgs {
		if _, dup := index[pkg.Package]; dup {
			return nil, errors.Errorf("batch: duplicate package %s", pkg.Package)
		}
		index[pkg.Package] = i
		g.AddVert(pkg.Package)
	}
	for _, pkg := range pkgs {
		for _, path := range imports(pkg) {
			if _, ok := index[path]; ok {
				g.AddEdge(path, pkg.Package)
			}
		}
	}
	if cycles := g.Cycles(); len(cycles) > 0 {
		names := lo.Map(cycles[0], func(v int, _ int) string { return g.Name(v) })
		return nil, &ImportCycleError{Packages: names}
	}

	results := make([]Result, len(pkgs))
	analyzed := make(map[string]types.PolyType, len(pkgs))
	log := a.logger()

	for depth, layer := range g.Layers() {
		imp := importer.Chain{importer.NewMap(analyzed), a.Importer}
		if a.Store != nil {
			imp = append(imp, a.Store)
		}
		log.Debug("analyzing layer", "depth", depth, "packages", len(layer))

		eg, ctx := errgroup.WithContext(ctx)
		if a.Parallelism > 0 {
			eg.SetLimit(a.Parallelism)
		}
		var mu sync.Mutex
		for _, c := range layer {
			i := index[g.Name(c[0])]
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				r, err := a.analyze(ctx, pkgs[i], imp)
				if err != nil {
					return err
				}
				results[i] = r
				mu.Lock()
				defer mu.Unlock()
				analyzed[r.Path()] = r.Exports.PolyType()
				return nil
			})
		}
		// analyzed is only read by the next layer's importer
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (a *Analyzer) analyze(ctx context.Context, pkg *semantic.Package, imp flowtype.Importer) (Result, error) {
	start := time.Now()
	log := a.logger().With("package", pkg.Package)

	opts := a.Options
	opts.Logger = log
	x, err := flowtype.NewContext(opts).InferPackageContext(ctx, pkg, a.Prelude, imp)
	r := Result{Package: pkg, Exports: x}
	if err != nil {
		var errs flowtype.Errors
		if !errors.As(err, &errs) {
			return r, err
		}
		r.Errors = errs
	}
	if opts.Vectorize {
		r.Warnings = vectorize.Package(pkg, vectorize.Options{Param: a.VectorizeParam, Logger: log})
	}
	if a.Store != nil {
		prev, ok, err := a.Store.Load(ctx, pkg.Package)
		if err != nil {
			return r, err
		}
		if old, ok := exportsOf(prev, ok); ok {
			report := diff.Packages(old.Map(), x.Map())
			r.Changes = &report
			log.Info("package changed", "severity", report.Severity.String(), "changed", report.Changed(diff.Minor))
		}
		if err := a.Store.PutExports(ctx, pkg.Package, x); err != nil {
			return r, err
		}
	}
	log.Info("analyzed package", "exports", x.Len(), "errors", len(r.Errors),
		"warnings", len(r.Warnings), "elapsed", time.Since(start))
	return r, nil
}

func exportsOf(p types.PolyType, ok bool) (*flowtype.PackageExports, bool) {
	if !ok {
		return nil, false
	}
	return flowtype.ExportsFromPolyType(p)
}

// imports returns the distinct import paths of a package.
func imports(pkg *semantic.Package) []string {
	var paths []string
	for _, f := range pkg.Files {
		for _, imp := range f.Imports {
			paths = append(paths, imp.Path.Value)
		}
	}
	return lo.Uniq(paths)
}
