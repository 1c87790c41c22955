package validator

import (
	"context"
	"errors"
	"fmt"

	"mmdcheck/internal/ast"
	"mmdcheck/internal/diag"
	"mmdcheck/internal/engine"
	"mmdcheck/internal/sanitize"
	"mmdcheck/internal/source"
)

// FileEngine is implemented by engines that report spanned diagnostics for a
// file of a FileSet.
type FileEngine interface {
	ParseFile(ctx context.Context, fs *source.FileSet, id source.FileID) (*ast.Diagram, *diag.Bag, error)
}

const maxFileDiagnostics = 64

// CheckFile validates one file of fs like Validate, and also returns the
// diagnostics with spans pointing into that file. Engines without
// FileEngine get a single diagnostic at the start of the file on failure.
func (s *Service) CheckFile(ctx context.Context, fs *source.FileSet, id source.FileID) (Result, *diag.Bag, error) {
	eng, err := s.EnsureConfigured(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, nil, ctxErr
		}
		return NormalizeFailure(err).Result(), failureBag(id, err), nil
	}

	var engBag *diag.Bag
	if fe, ok := eng.(FileEngine); ok {
		engBag, err = parseFile(ctx, fe, fs, id)
	} else {
		err = parse(ctx, eng, string(fs.Get(id).Content))
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, nil, ctxErr
	}

	bag := diag.NewBag(maxFileDiagnostics)
	if engBag != nil {
		for _, d := range engBag.Items() {
			// the engine parses a blanked copy with identical offsets
			d.Primary.File = id
			bag.Add(d)
		}
	}
	if err == nil {
		return Result{Valid: true}, bag, nil
	}
	if !bag.HasErrors() {
		bag.Merge(failureBag(id, err))
	}
	return NormalizeFailure(err).Result(), bag, nil
}

// Settled reports whether a CheckFile outcome depends on the text alone.
// Loader, sanitizer and engine faults are not settled and must not be cached.
func Settled(r Result, bag *diag.Bag) bool {
	if r.Valid {
		return true
	}
	if bag == nil {
		return false
	}
	d, ok := bag.First()
	if !ok {
		return false
	}
	switch d.Code {
	case diag.UnknownCode, diag.RtSanitizerUnbound:
		return false
	}
	return true
}

func parseFile(ctx context.Context, fe FileEngine, fs *source.FileSet, id source.FileID) (bag *diag.Bag, err error) {
	defer func() {
		if r := recover(); r != nil {
			bag, err = nil, fmt.Errorf("%v", r)
		}
	}()
	_, bag, err = fe.ParseFile(ctx, fs, id)
	return bag, err
}

func failureBag(id source.FileID, err error) *diag.Bag {
	code := diag.UnknownCode
	var (
		pe *engine.ParseError
		ue *engine.UnknownDiagramError
		fe *engine.FrontmatterError
	)
	switch {
	case errors.Is(err, sanitize.ErrUnbound):
		code = diag.RtSanitizerUnbound
	case errors.As(err, &pe) && pe.Code != diag.UnknownCode:
		code = pe.Code
	case errors.As(err, &ue):
		code = diag.PreUnknownDiagram
	case errors.As(err, &fe):
		code = diag.PreBadFrontmatter
	}
	msg := NormalizeFailure(err).Result().Message
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(code, source.Span{File: id}, msg))
	return bag
}
