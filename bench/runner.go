package bench

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"binobj/log"
	"binobj/record"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var (
	DefaultSequence   = []int{1, 10, 100, 1000, 10000}
	DefaultIterations = 4
	DefaultStringLen  = 10
)

type Options struct {
	Sequence    []int
	Iterations  int
	StringLen   int
	Concurrency int
	// RateLimit caps round trips per second. Zero means unlimited.
	RateLimit float64
	Seed      int64
}

func (o *Options) withDefaults() Options {
	out := *o
	if len(out.Sequence) == 0 {
		out.Sequence = DefaultSequence
	}
	if out.Iterations <= 0 {
		out.Iterations = DefaultIterations
	}
	if out.StringLen <= 0 {
		out.StringLen = DefaultStringLen
	}
	if out.Concurrency <= 0 {
		out.Concurrency = 1
	}
	if out.Seed == 0 {
		out.Seed = time.Now().UnixNano()
	}
	return out
}

type Runner struct {
	opts    Options
	limiter *rate.Limiter
	rng     *rand.Rand
	lgr     log.Logger
}

func NewRunner(opts *Options) *Runner {
	o := opts.withDefaults()
	limiter := rate.NewLimiter(rate.Inf, 0)
	if o.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(o.RateLimit), 1)
	}
	return &Runner{
		opts:    o,
		limiter: limiter,
		rng:     rand.New(rand.NewSource(o.Seed)),
		lgr:     log.WithModule("bench"),
	}
}

// Run drives every transport through the configured sequence in turn and
// collects one row per (transport, count, iteration).
func (r *Runner) Run(ctx context.Context, transports ...Transport) (*Report, error) {
	report := &Report{
		RunID:   ksuid.New(),
		Started: time.Now(),
	}
	for _, t := range transports {
		r.lgr.Info("benchmarking transport", "run_id", report.RunID.String(), "transport", t.Name())
		for _, count := range r.opts.Sequence {
			for i := 0; i < r.opts.Iterations; i++ {
				row, err := r.batch(ctx, t, count)
				if err != nil {
					return nil, errors.Wrapf(err, "%s: batch of %d", t.Name(), count)
				}
				row.Iteration = i
				report.Rows = append(report.Rows, row)
				r.lgr.Debug(
					"finished batch",
					"transport", t.Name(),
					"count", count,
					"iteration", i,
					"duration", row.Duration,
				)
			}
		}
	}
	return report, nil
}

func (r *Runner) batch(ctx context.Context, t Transport, count int) (Row, error) {
	users := make([]*record.User, count)
	for i := range users {
		users[i] = record.RandomUser(r.rng, r.opts.StringLen)
	}

	var transferred int64
	start := time.Now()
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for _, user := range users {
		if err := r.limiter.Wait(gCtx); err != nil {
			break
		}
		user := user
		g.Go(func() error {
			n, err := t.RoundTrip(gCtx, user)
			if err != nil {
				return err
			}
			atomic.AddInt64(&transferred, int64(n))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Row{}, err
	}
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}

	return Row{
		Transport: t.Name(),
		Count:     count,
		Duration:  time.Since(start),
		Bytes:     transferred,
	}, nil
}
