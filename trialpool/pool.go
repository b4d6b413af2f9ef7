// Package trialpool runs many (victim, attacker) trials concurrently
// over independent clones of a canonical graph. The shape follows the
// teacher's own concurrency idiom — a fixed worker count handed a
// slice of opaque tokens and a side-effecting closure
// (anaximander_driver.go's pool.Launch_pool calls) — generalized with
// an errgroup/context layer for ordered results and cooperative
// cancellation, which Launch_pool's fire-and-forget shape cannot give
// us on its own.
package trialpool

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	pool "github.com/Emeline-1/pool"

	"github.com/meyerstim/bgpsecsim/asgraph"
	"github.com/meyerstim/bgpsecsim/bgpsecerr"
	"github.com/meyerstim/bgpsecsim/engine"
	"github.com/meyerstim/bgpsecsim/metrics"
)

// Trial names one (victim, attacker) hijack scenario to run. ID tags
// the trial's log lines and any warning reported for it, since trials
// on different workers finish in no fixed order.
type Trial struct {
	ID       uuid.UUID
	Victim   asgraph.ASID
	Attacker asgraph.ASID
	HopCount int
}

// Result is what a completed Trial produced. A trial that fails
// fatally (ErrNoRoute) carries Err with SuccessRate left nil. A trial
// that fails with a recoverable ErrUnknownAS carries both: a zero
// SuccessRate, per spec, plus Err so the caller still gets to warn
// about it.
type Result struct {
	Trial       Trial
	SuccessRate *big.Rat
	Err         error
}

// Pool owns one canonical graph and a fixed number of worker clones
// cut from it at construction time.
type Pool struct {
	workers []*asgraph.ASGraph
	log     logrus.FieldLogger
}

// New builds a Pool with n worker-local graph clones of base. Cloning
// happens once, up front, via pool.Launch_pool the way the teacher
// distributes any per-worker setup step: a slice of worker-ID tokens
// and a closure that fills in a pre-sized slot.
func New(base *asgraph.ASGraph, n int, log logrus.FieldLogger) *Pool {
	if n < 1 {
		n = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	clones := make([]*asgraph.ASGraph, n)
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = strconv.Itoa(i)
	}

	pool.Launch_pool(n, tokens, func(token string) {
		idx, _ := strconv.Atoi(token)
		clones[idx] = base.CloneForTrial()
	})

	return &Pool{workers: clones, log: log}
}

// Run dispatches trials across the pool's workers, returning one
// Result per trial in submission order regardless of which worker
// finished it or when. ctx cancellation (SIGINT via
// signal.NotifyContext at the CLI layer) stops new trials from being
// picked up between iterations; any trial already running completes.
//
// A trial that fails with a recoverable error (unknown victim or
// attacker) does not abort the batch: its error is recorded in the
// corresponding Result and also folded into the returned
// aggregate error via multierr, so a caller can log every
// skipped trial without losing the rest of the batch — the
// Go-idiomatic rendering of the original simulator's bare
// warnings.warn(...) calls.
func (p *Pool) Run(ctx context.Context, trials []Trial) ([]Result, error) {
	results := make([]Result, len(trials))
	jobs := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < len(p.workers); w++ {
		worker := p.workers[w]
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case idx, ok := <-jobs:
					if !ok {
						return nil
					}
					results[idx] = p.runOne(worker, trials[idx])
				}
			}
		})
	}

	go func() {
		defer close(jobs)
		for i := range trials {
			select {
			case <-gctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	if err := g.Wait(); err != nil {
		return results, err
	}

	var warnings error
	for _, r := range results {
		if r.Err != nil {
			warnings = multierr.Append(warnings, fmt.Errorf("trial %s (victim %d, attacker %d): %w", r.Trial.ID, r.Trial.Victim, r.Trial.Attacker, r.Err))
		}
	}
	return results, warnings
}

func (p *Pool) runOne(g *asgraph.ASGraph, t Trial) Result {
	start := time.Now()
	g.Clear()

	logEntry := p.log.WithFields(logrus.Fields{
		"trial_id": t.ID,
		"victim":   t.Victim,
		"attacker": t.Attacker,
	})

	if err := engine.PropagateFrom(g, t.Victim); err != nil {
		logEntry.WithError(err).Warn("trial failed during propagation")
		if errors.Is(err, bgpsecerr.ErrUnknownAS) {
			metrics.RecordTrial("unknown-as", time.Since(start))
			return Result{Trial: t, SuccessRate: big.NewRat(0, 1), Err: err}
		}
		metrics.RecordTrial("no-route", time.Since(start))
		return Result{Trial: t, Err: err}
	}

	hops := t.HopCount
	if hops == 0 {
		hops = 1
	}
	if err := engine.HijackNHops(g, t.Victim, t.Attacker, hops); err != nil {
		logEntry.WithError(err).Warn("trial failed during hijack injection")
		if errors.Is(err, bgpsecerr.ErrUnknownAS) {
			metrics.RecordTrial("unknown-as", time.Since(start))
			return Result{Trial: t, SuccessRate: big.NewRat(0, 1), Err: err}
		}
		metrics.RecordTrial("no-route", time.Since(start))
		return Result{Trial: t, Err: err}
	}

	rate, err := engine.SuccessRate(g, t.Attacker, t.Victim)
	if err != nil {
		logEntry.WithError(err).Warn("trial failed computing success rate")
		if errors.Is(err, bgpsecerr.ErrUnknownAS) {
			metrics.RecordTrial("unknown-as", time.Since(start))
			return Result{Trial: t, SuccessRate: big.NewRat(0, 1), Err: err}
		}
		metrics.RecordTrial("no-route", time.Since(start))
		return Result{Trial: t, Err: err}
	}

	metrics.RecordTrial("success", time.Since(start))
	metrics.RecordSuccessRate(rate)
	logEntry.WithField("success_rate", rate.FloatString(4)).Info("trial complete")
	return Result{Trial: t, SuccessRate: rate}
}
