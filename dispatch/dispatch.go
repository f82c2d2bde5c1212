// Package dispatch translates chunks concurrently through a fixed-size
// worker pool and collects the results by chunk index.
//
// All chunk indices are queued before any worker starts. Workers pull
// indices from the queue, so no chunk is dispatched twice. The remote call
// is the only blocking step and is never made under the table lock. The
// first failed call stops all workers from claiming further chunks; calls
// already in flight are left to finish. A call that fails because the
// caller cancelled the context is not a failure: Run returns ctx.Err().
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"github.com/seatrans/seatrans/chunker"
	"github.com/seatrans/seatrans/prompt"
	"github.com/seatrans/seatrans/translate"
)

// DefaultPoolSize is the default number of concurrent workers.
const DefaultPoolSize = 8

// ErrInvalidPoolSize is returned (wrapped in a chunker.ConfigError) when
// the pool size is not positive.
var ErrInvalidPoolSize = errors.New("pool size must be positive")

// RemoteCallError reports the chunk whose translation failed.
type RemoteCallError struct {
	Index int
	Err   error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Err)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }

// Is makes every RemoteCallError match translate.ErrRemoteCall, whatever the
// invoker returned.
func (e *RemoteCallError) Is(target error) bool {
	return target == translate.ErrRemoteCall
}

// Workers returns the number of workers Run starts for n chunks.
func Workers(poolSize, n int) int {
	return max(min(poolSize, n), 0)
}

// Options controls a dispatch run.
type Options struct {
	// Language is the target language name passed to the prompt builder.
	Language string
	// Model is the model identifier passed to the invoker.
	Model string
	// PoolSize is the maximum number of concurrent workers.
	PoolSize int
	// Invoker performs the remote call.
	Invoker translate.Invoker
	// Builder renders the request for each chunk. The zero value uses the
	// default template.
	Builder prompt.Builder
	// Tracker, if set, is reset and updated during the run so other
	// goroutines can read progress.
	Tracker *Tracker
	// OnProgress is called after each stored result, outside the table lock.
	OnProgress func(done, total int)
	// Logger receives per-chunk debug logs. Nil discards them.
	Logger logrus.FieldLogger
}

func (o *Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Run translates every chunk and returns the filled table. On the first
// failed call it returns a *RemoteCallError and no table; if ctx is
// cancelled it returns ctx.Err(). Run returns only
// after all workers have exited.
func Run(ctx context.Context, chunks []chunker.Chunk, opts Options) (*Table, error) {
	if opts.PoolSize <= 0 {
		return nil, &chunker.ConfigError{Field: "pool size", Value: opts.PoolSize, Err: ErrInvalidPoolSize}
	}
	if opts.Invoker == nil {
		return nil, errors.New("dispatch: no invoker configured")
	}

	n := len(chunks)
	tracker := opts.Tracker
	if tracker == nil {
		tracker = NewTracker(n)
	}
	tracker.reset(n)
	table := newTable(n, tracker)
	if n == 0 {
		return table, nil
	}

	workers := Workers(opts.PoolSize, n)
	log := opts.logger().WithFields(logrus.Fields{
		"workers": workers,
		"chunks":  n,
		"model":   opts.Model,
		"lang":    opts.Language,
	})
	log.Debug("dispatch started")

	queue := make(chan int, n)
	for i := range chunks {
		queue <- i
	}
	close(queue)

	// stop is cancelled on the first failure; it only gates claiming.
	stop, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		failOnce  sync.Once
		failure   error
		failedIdx int
	)
	fail := func(idx int, err error) {
		failOnce.Do(func() {
			failure, failedIdx = err, idx
			cancel()
		})
	}

	work := func() {
		for idx := range queue {
			if stop.Err() != nil {
				return
			}
			c := chunks[idx]
			req := opts.Builder.Build(c.Text, opts.Language)

			out, err := opts.Invoker.Invoke(ctx, req, opts.Model)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.WithField("chunk", idx).WithError(err).Debug("chunk failed")
				fail(idx, &RemoteCallError{Index: idx, Err: err})
				return
			}

			done, err := table.Put(Result{Index: idx, Original: c.Text, Translated: out})
			if err != nil {
				fail(idx, storeError(idx, err))
				return
			}
			log.WithFields(logrus.Fields{"chunk": idx, "chars": c.CharLength}).Debug("chunk translated")
			if opts.OnProgress != nil {
				opts.OnProgress(int(done), n)
			}
		}
	}

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(workers, func(any) {
		defer wg.Done()
		work()
	})
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	var submitErr error
	for w := 0; w < workers; w++ {
		wg.Add(1)
		if err := pool.Invoke(w); err != nil {
			wg.Done()
			submitErr = fmt.Errorf("starting worker %d: %w", w, err)
			cancel()
			break
		}
	}
	wg.Wait()

	if failure != nil {
		log.WithField("chunk", failedIdx).Debug("dispatch aborted")
		return nil, failure
	}
	if submitErr != nil {
		return nil, submitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !table.Complete() {
		return nil, fmt.Errorf("dispatch finished with %d of %d chunks", table.Completed(), n)
	}
	log.Debug("dispatch finished")
	return table, nil
}

// storeError reports a table write that was refused. It is an internal
// fault, not a remote failure, so it is not a *RemoteCallError.
func storeError(idx int, err error) error {
	return fmt.Errorf("storing chunk %d: %w", idx, err)
}
