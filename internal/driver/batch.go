package driver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"lambda/internal/diag"
	"lambda/internal/observ"
	"lambda/internal/source"
	"lambda/internal/trace"
)

// BatchOptions configures EvalFiles.
type BatchOptions struct {
	Options
	// Jobs bounds concurrent evaluations; 0 means GOMAXPROCS.
	Jobs     int
	Progress ProgressSink
}

// EvalFiles evaluates every path concurrently. Results follow the order of
// paths. A file that cannot be read gets a result with an IO4001 diagnostic.
// The error is only set when ctx is canceled; entries of inputs that never
// started are nil in that case.
func EvalFiles(ctx context.Context, paths []string, opts BatchOptions) (*source.FileSet, []*EvalResult, error) {
	fileSet := source.NewFileSet()
	if len(paths) == 0 {
		return fileSet, nil, nil
	}

	// FileSet не потокобезопасен: загружаем всё заранее
	fileIDs := make([]source.FileID, len(paths))
	loadErrors := make([]error, len(paths))
	for i, path := range paths {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		fileIDs[i], loadErrors[i] = fileSet.Load(path)
		if loadErrors[i] != nil {
			// пустой виртуальный файл, чтобы диагностике было куда указывать
			fileIDs[i] = fileSet.AddVirtual(path, nil)
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]*EvalResult, len(paths))
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			started := time.Now()

			if loadErr := loadErrors[i]; loadErr != nil {
				bag := diag.NewBag(opts.maxDiagnostics())
				bag.Add(diag.NewError(diag.IOLoadFileError, source.At(fileIDs[i], 0), "failed to load "+path+": "+loadErr.Error()))
				results[i] = &EvalResult{FileSet: fileSet, File: fileSet.Get(fileIDs[i]), Bag: bag, Timer: observ.NewTimer(), Err: loadErr}
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr, Elapsed: time.Since(started)})
				return nil
			}

			span := trace.Begin(tracer, trace.ScopeFile, "file:"+path, parent)
			fctx := trace.WithSpan(gctx, span)
			emit(opts.Progress, Event{File: path, Stage: StageEval, Status: StatusWorking})

			res := evaluate(fctx, fileSet, fileIDs[i], opts.Options)
			results[i] = res

			status := StatusDone
			if res.Err != nil {
				status = StatusError
			}
			span.End(string(status))
			emit(opts.Progress, Event{File: path, Stage: StageEval, Status: status, Err: res.Err, Elapsed: time.Since(started)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, ctx.Err()
}
