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

package flowtype

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	set "github.com/hashicorp/go-set/v3"

	"github.com/wdamron/flowtype/semantic"
	"github.com/wdamron/flowtype/types"
)

// InferenceContext is a reusable context for type inference.
//
// An inference context cannot be used concurrently. Each run owns its own Fresher, so
// contexts used by separate goroutines never share type-variables.
type InferenceContext struct {
	opts   Options
	logger *slog.Logger
	run    uuid.UUID

	fresher *types.Fresher
	kinds   types.TvarKinds
	sub     types.Substitution
	cons    []Constraint
	errs    Errors
	// type-variables instantiated from Label-kinded quantifiers
	labelVars *set.Set[types.Tvar]

	env      *Environment
	importer Importer
	exports  *PackageExports
}

// Create a new type-inference context. A context may be reused for inference.
func NewContext(opts Options) *InferenceContext {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &InferenceContext{opts: opts, logger: logger}
}

func (ti *InferenceContext) reset(prelude *Environment, imp Importer) {
	ti.run = uuid.New()
	ti.fresher = types.NewFresher(0)
	ti.kinds = types.TvarKinds{}
	ti.sub = types.Substitution{}
	ti.cons, ti.errs = ti.cons[:0], nil
	ti.labelVars = set.New[types.Tvar](0)
	ti.env = NewEnvironment(prelude)
	ti.importer = imp
	ti.exports = NewPackageExports()
}

// Infer the types of a package. Each expression of pkg is annotated with its inferred type, and
// each variable assignment with its generalized type. The types of top-level bindings are
// returned in declaration order.
//
// prelude, if not nil, must be frozen; it may be shared between concurrent runs. imp may be nil
// when the package has no imports.
//
// If type errors are found, the returned error is an Errors value holding every error, and the
// returned exports hold the types inferred in spite of the errors.
func (ti *InferenceContext) InferPackage(pkg *semantic.Package, prelude *Environment, imp Importer) (*PackageExports, error) {
	return ti.InferPackageContext(context.Background(), pkg, prelude, imp)
}

// InferPackageContext is InferPackage with cancellation. Cancellation is checked between
// top-level statements; a cancelled run is discarded and ctx.Err() is returned.
func (ti *InferenceContext) InferPackageContext(ctx context.Context, pkg *semantic.Package, prelude *Environment, imp Importer) (*PackageExports, error) {
	ti.reset(prelude, imp)
	log := ti.logger.With("run", ti.run.String(), "package", pkg.Package)
	log.Debug("inferring package", "files", len(pkg.Files))

	for _, file := range pkg.Files {
		ti.env.Enter()
		ti.inferImports(file)
		for _, stmt := range file.Body {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ti.inferStatement(stmt, nil, true)
			n, errs := len(ti.cons), len(ti.errs)
			ti.solve()
			// generation reports precede solve errors; order the statement's errors by location
			ti.errs[errs:].Sort()
			log.Debug("solved statement", "stmt", stmt.NodeName(), "loc", stmt.Location().String(),
				"constraints", n, "errors", len(ti.errs)-errs)
		}
		ti.env.Exit()
	}
	ti.inject(pkg)
	if log.Enabled(ctx, slog.LevelDebug) {
		log.Debug("annotated package", "graph", semantic.Dump(pkg))
	}

	errs := ti.errs
	if ti.opts.MaxErrors > 0 && len(errs) > ti.opts.MaxErrors {
		errs = errs[:ti.opts.MaxErrors]
	}
	log.Debug("inferred package", "exports", ti.exports.Len(), "errors", len(ti.errs), "vars", uint64(ti.fresher.Next()))
	if len(errs) > 0 {
		return ti.exports, errs
	}
	return ti.exports, nil
}

// InferFile infers the types of a single file as a package.
func (ti *InferenceContext) InferFile(file *semantic.File, prelude *Environment, imp Importer) (*PackageExports, error) {
	pkg := &semantic.Package{Base: file.Base, Files: []*semantic.File{file}}
	if file.Package != nil && file.Package.Name != nil {
		pkg.Package = file.Package.Name.Name
	}
	return ti.InferPackage(pkg, prelude, imp)
}

func (ti *InferenceContext) inferImports(file *semantic.File) {
	for _, imp := range file.Imports {
		name := imp.Name()
		var p types.PolyType
		ok := false
		if ti.importer != nil {
			p, ok = ti.importer.Import(imp.Path.Value)
		}
		if !ok {
			ti.report(imp.Loc, &UnresolvedImport{Path: imp.Path.Value})
			p = types.Mono(types.Error{})
		}
		ti.env.Add(name, p)
	}
}

func (ti *InferenceContext) report(loc semantic.Loc, err error) {
	ti.errs = append(ti.errs, &Error{Loc: loc, Err: err})
}

func (ti *InferenceContext) fresh() *types.Var { return ti.fresher.FreshVar() }

func (ti *InferenceContext) equal(exp, act types.MonoType, loc semantic.Loc) {
	ti.cons = append(ti.cons, &EqualConstraint{Exp: exp, Act: act, Loc: loc})
}

func (ti *InferenceContext) constrain(kind types.Kind, t types.MonoType, loc semantic.Loc) {
	ti.cons = append(ti.cons, &KindConstraint{Kind: kind, Type: t, Loc: loc})
}

// solve folds pending constraints into the context's substitution.
func (ti *InferenceContext) solve() {
	if len(ti.cons) == 0 {
		return
	}
	sub, errs := solve(ti.sub, ti.cons, ti.kinds, ti.fresher)
	ti.sub = sub
	ti.errs = append(ti.errs, errs...)
	for i := range ti.cons {
		ti.cons[i] = nil
	}
	ti.cons = ti.cons[:0]
}

// generalize quantifies the variables of t which are not free in the environment. Pending
// constraints must be solved first.
func (ti *InferenceContext) generalize(t types.MonoType) types.PolyType {
	ti.env.Apply(ti.sub)
	envVars := set.New[types.Tvar](0)
	ti.env.FreeVars(envVars)
	return types.Generalize(envVars, ti.kinds, ti.sub.ApplyType(t))
}

// instantiate replaces the quantified variables of p with fresh variables and constrains the
// fresh variables by the kinds p requires.
func (ti *InferenceContext) instantiate(p types.PolyType, loc semantic.Loc) types.MonoType {
	t, obligations := types.Instantiate(p, ti.fresher)
	for _, o := range obligations {
		if o.Kind == types.LabelKind {
			ti.labelVars.Insert(o.Var.Tvar)
		}
		ti.constrain(o.Kind, o.Var, loc)
	}
	return t
}

// inject rewrites the type of every node in pkg with the solved substitution.
func (ti *InferenceContext) inject(pkg *semantic.Package) {
	sub := ti.sub
	semantic.WalkFunc(pkg, func(n semantic.Node) {
		switch n := n.(type) {
		case semantic.Expression:
			if t := n.Type(); t != nil {
				n.SetType(sub.ApplyType(t))
			}
		case *semantic.NativeVariableAssignment:
			if p := n.Type(); p.Expr != nil {
				n.SetType(p.Apply(sub))
			}
		}
	})
	ti.exports.Range(func(name string, p types.PolyType) bool {
		ti.exports.values[name] = p.Apply(sub)
		return true
	})
}
