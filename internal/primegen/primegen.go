package primegen

import (
	"context"
	"crypto/rand"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/largeint-rsa/pkg/largeint"
)

// ErrExhausted is returned when the candidate limit is reached without
// finding a prime.
var ErrExhausted = errors.New("primegen: candidate limit reached without a prime")

// progressInterval controls how often workers report progress.
const progressInterval = 100

// Config configures a prime search.
type Config struct {
	// Bits is the exact bit length of the prime.
	Bits int

	// Rounds is the number of Miller-Rabin rounds (0 = largeint.DefaultPrimeRounds).
	Rounds int

	// MaxCandidates bounds the number of candidates drawn.
	MaxCandidates int

	// NumWorkers controls parallelization (0 = auto-detect).
	NumWorkers int

	// Rand is the randomness source (nil = crypto/rand.Reader). It does not
	// need to be safe for concurrent use.
	Rand io.Reader

	Logger *zap.Logger
}

// Result contains the outcome of a successful search.
type Result struct {
	Prime      largeint.Int
	Candidates int64 // candidates tested, across all workers
	Elapsed    time.Duration
}

func (c Config) withDefaults() Config {
	if c.Rounds <= 0 {
		c.Rounds = largeint.DefaultPrimeRounds
	}
	if c.NumWorkers <= 0 {
		c.NumWorkers = runtime.NumCPU()
	}
	if c.Rand == nil {
		c.Rand = rand.Reader
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// lockedReader serializes reads from a shared randomness source.
type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(p)
}

// Search draws random odd candidates of cfg.Bits bits and tests them with
// parallel workers until one is probably prime.
//
// The first prime found cancels the remaining workers. Search fails with
// ErrExhausted once cfg.MaxCandidates candidates were drawn, and with the
// context error when ctx is done first.
func Search(ctx context.Context, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	if cfg.MaxCandidates <= 0 {
		return nil, errors.Errorf("primegen: candidate limit must be positive, got %d", cfg.MaxCandidates)
	}
	logger := cfg.Logger.With(zap.Int("bits", cfg.Bits))
	start := time.Now()

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rnd := &lockedReader{r: cfg.Rand}
	workChan := make(chan largeint.Int, cfg.NumWorkers*2)
	resultChan := make(chan largeint.Int, 1)
	errChan := make(chan error, 1)

	var tested int64

	var wg sync.WaitGroup
	for i := 0; i < cfg.NumWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			worker(searchCtx, workChan, resultChan, errChan, rnd, cfg.Rounds, &tested, logger.With(zap.Int("worker", workerID)))
		}(i)
	}

	// Generate candidates in a separate goroutine. It is part of the wait
	// group so no read from cfg.Rand outlives Search.
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(workChan)
		for i := 0; i < cfg.MaxCandidates; i++ {
			c, err := largeint.RandomCandidate(rnd, cfg.Bits)
			if err != nil {
				sendErr(errChan, err)
				return
			}
			select {
			case <-searchCtx.Done():
				return
			case workChan <- c:
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	finish := func(p largeint.Int) *Result {
		res := &Result{Prime: p, Candidates: atomic.LoadInt64(&tested), Elapsed: time.Since(start)}
		logger.Debug("prime found", zap.Int64("candidates", res.Candidates), zap.Duration("elapsed", res.Elapsed))
		return res
	}

	select {
	case p := <-resultChan:
		cancel()
		<-done
		return finish(p), nil
	case err := <-errChan:
		cancel()
		<-done
		return nil, err
	case <-done:
	}

	// all workers stopped; a result or error may have raced with shutdown
	select {
	case p := <-resultChan:
		return finish(p), nil
	case err := <-errChan:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "primegen: search interrupted")
	}
	logger.Debug("prime search exhausted", zap.Int64("candidates", atomic.LoadInt64(&tested)))
	return nil, errors.Wrapf(ErrExhausted, "%d candidates of %d bits", atomic.LoadInt64(&tested), cfg.Bits)
}

// worker tests candidates from the work channel
func worker(
	ctx context.Context,
	workChan <-chan largeint.Int,
	resultChan chan<- largeint.Int,
	errChan chan<- error,
	rnd io.Reader,
	rounds int,
	tested *int64,
	logger *zap.Logger,
) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-workChan:
			if !ok {
				return
			}

			n := atomic.AddInt64(tested, 1)

			// one cheap round rejects nearly every composite before the full test
			prime, err := c.ProbablyPrime(1, rnd)
			if err == nil && prime && rounds > 1 {
				if ctx.Err() != nil {
					return
				}
				prime, err = c.ProbablyPrime(rounds-1, rnd)
			}
			if err != nil {
				sendErr(errChan, err)
				return
			}

			if prime {
				select {
				case resultChan <- c:
				case <-ctx.Done():
				}
				return
			}

			if n%progressInterval == 0 {
				logger.Debug("prime search progress", zap.Int64("candidates", n))
			}
		}
	}
}

func sendErr(errChan chan<- error, err error) {
	select {
	case errChan <- err:
	default:
	}
}
