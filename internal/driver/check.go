package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"mmdcheck/internal/diag"
	"mmdcheck/internal/diagfmt"
	"mmdcheck/internal/input"
	"mmdcheck/internal/source"
	"mmdcheck/internal/validator"
)

// CheckOptions configures a batch check.
type CheckOptions struct {
	// Service is shared by every worker; its engine loads once.
	Service *validator.Service
	// Jobs caps the number of files validated at once; 0 means GOMAXPROCS.
	Jobs int
	// MaxBytes rejects larger files without parsing them; 0 means unlimited.
	MaxBytes       int64
	MaxDiagnostics int
	// Cache is optional. Fingerprint must describe the service settings.
	Cache       *DiskCache
	Fingerprint Digest
	Progress    ProgressSink
	Log         logrus.FieldLogger
}

type loadedFile struct {
	id  source.FileID
	err error
}

// Check validates every path and returns one CheckedFile per path in the
// given order. Files that cannot be read become invalid results with an I/O
// diagnostic. The error is set only when ctx is done.
func Check(ctx context.Context, paths []string, opts CheckOptions) (*source.FileSet, []diagfmt.CheckedFile, error) {
	if opts.Service == nil {
		opts.Service = validator.NewService()
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 64
	}
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	fileSet := source.NewFileSet()
	results := make([]diagfmt.CheckedFile, len(paths))
	if len(paths) == 0 {
		return fileSet, results, nil
	}

	// FileSet is not safe for concurrent writes: load everything up front
	loaded := make([]loadedFile, len(paths))
	for i, path := range paths {
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusQueued})
		loaded[i] = loadFile(ctx, fileSet, path, opts.MaxBytes)
		if err := ctx.Err(); err != nil {
			return fileSet, results, err
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started := time.Now()
			lf := loaded[i]
			if lf.err != nil {
				results[i] = loadFailure(path, lf, opts.MaxDiagnostics)
				emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusError, Err: lf.err})
				return nil
			}
			emit(opts.Progress, Event{File: path, Stage: StageValidate, Status: StatusWorking})

			// the shared FileSet is only read from here on
			file := fileSet.Get(lf.id)
			res, err := checkOne(gctx, file, lf.id, opts, log)
			if err != nil {
				return err
			}
			res.Path = path
			results[i] = res

			status := StatusDone
			switch {
			case !res.Result.Valid:
				status = StatusError
			case res.Cached:
				status = StatusCached
			}
			emit(opts.Progress, Event{File: path, Stage: StageValidate, Status: status, Elapsed: time.Since(started)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func checkOne(ctx context.Context, file *source.File, id source.FileID, opts CheckOptions, log logrus.FieldLogger) (diagfmt.CheckedFile, error) {
	key := cacheKey(file.Hash, opts.Fingerprint)
	if payload, ok, err := opts.Cache.Get(key); err != nil {
		log.WithError(err).WithField("path", file.Path).Warn("ignoring unreadable cache entry")
	} else if ok {
		r, bag := diskPayloadToResult(payload, id, opts.MaxDiagnostics)
		return diagfmt.CheckedFile{Result: r, Bag: bag, Cached: true}, nil
	}

	// each worker parses in its own FileSet; offsets match the shared copy
	local := source.NewFileSet()
	localID := local.Add(file.Path, file.Content, file.Flags)
	r, localBag, err := opts.Service.CheckFile(ctx, local, localID)
	if err != nil {
		return diagfmt.CheckedFile{}, err
	}
	bag := rebase(localBag, id, opts.MaxDiagnostics)

	if !validator.Settled(r, localBag) {
		log.WithField("path", file.Path).Debug("not caching degraded result")
		return diagfmt.CheckedFile{Result: r, Bag: bag}, nil
	}
	if err := opts.Cache.Put(key, resultToDiskPayload(r, bag)); err != nil {
		log.WithError(err).WithField("path", file.Path).Warn("failed to store cache entry")
	}
	return diagfmt.CheckedFile{Result: r, Bag: bag}, nil
}

func loadFile(ctx context.Context, fileSet *source.FileSet, path string, maxBytes int64) loadedFile {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return loadedFile{id: fileSet.AddVirtual(path, nil), err: err}
	}
	defer func() { _ = f.Close() }()

	text, err := input.ReadAll(ctx, f, input.Options{MaxBytes: maxBytes})
	if err != nil {
		return loadedFile{id: fileSet.AddVirtual(path, nil), err: err}
	}
	return loadedFile{id: fileSet.AddNormalized(path, []byte(text), 0)}
}

func loadFailure(path string, lf loadedFile, maxDiagnostics int) diagfmt.CheckedFile {
	code := diag.IOLoadFileError
	if errors.Is(lf.err, input.ErrInputTooLarge) {
		code = diag.IOInputTooLarge
	}
	msg := fmt.Sprintf("failed to load file: %v", lf.err)
	bag := diag.NewBag(maxDiagnostics)
	bag.Add(diag.NewError(code, source.Span{File: lf.id}, msg))
	return diagfmt.CheckedFile{
		Path:   path,
		Result: validator.Result{Valid: false, Message: msg},
		Bag:    bag,
	}
}

// rebase points every span of bag at file id.
func rebase(bag *diag.Bag, id source.FileID, maxDiagnostics int) *diag.Bag {
	out := diag.NewBag(maxDiagnostics)
	if bag == nil {
		return out
	}
	for _, d := range bag.Items() {
		d.Primary.File = id
		if len(d.Notes) > 0 {
			notes := make([]diag.Note, len(d.Notes))
			for j, n := range d.Notes {
				n.Span.File = id
				notes[j] = n
			}
			d.Notes = notes
		}
		out.Add(d)
	}
	return out
}
