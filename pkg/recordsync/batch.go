package recordsync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mailru/recordsync/pkg/precedence"
	"github.com/mailru/recordsync/pkg/precedence/errs"
)

const metricStorage = "precedence"

// BatchOptions - параметры пакетной обработки пар.
// Offset передаётся в резолвер для каждой пары.
type BatchOptions struct {
	Offset    string  `mapstructure:"offset"`
	Workers   int     `mapstructure:"workers"`
	RateLimit float64 `mapstructure:"rate_limit"` // решений в секунду, 0 - без ограничения
	RateBurst int     `mapstructure:"rate_burst"`
}

func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Workers:   4,
		RateBurst: 1,
	}
}

// Outcome - результат обработки одной пары.
// Если Err не nil, Action не имеет смысла и пара требует внимания оператора
type Outcome struct {
	Index  int               `json:"index"`
	ID     string            `json:"id,omitempty"`
	Action precedence.Action `json:"action"`
	After  bool              `json:"after"`
	Kind   errs.Kind         `json:"error_kind,omitempty"`
	Error  string            `json:"error,omitempty"`
	Err    error             `json:"-"`
}

type BatchResult struct {
	RunID    string
	Outcomes []Outcome
	Actions  map[precedence.Action]int
	Errors   map[errs.Kind]int
}

// Malformed возвращает число пар, обработанных с ошибкой
func (r BatchResult) Malformed() int {
	n := 0
	for _, c := range r.Errors {
		n += c
	}

	return n
}

// ResolveBatch принимает решение по каждой паре конкурентно.
//
// Ошибки отдельных пар не прерывают обработку и возвращаются в Outcome.
// Ошибка возвращается, если смещение из opts неверно или требуется, но не задано,
// а также при отмене ctx. Результаты идут в порядке входных пар.
func ResolveBatch(ctx context.Context, resolver *precedence.Resolver, pairs []precedence.Pair, opts BatchOptions) (BatchResult, error) {
	if _, err := resolver.Offset(opts.Offset); err != nil {
		return BatchResult{}, fmt.Errorf("invalid batch offset: %w", err)
	}

	runID := uuid.NewString()
	ctx = Logger().SetLoggerValueToContext(ctx, ValueLogPrefix{"run": runID})

	timer := Metric().Timer(metricStorage, "batch")
	timer.Timing(ctx, "resolve")
	defer timer.Finish(ctx, "resolve")

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	var limiter *rate.Limiter

	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}

		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	Logger().Debug(ctx, fmt.Sprintf("resolve %d pairs with %d workers", len(pairs), workers))

	outcomes := make([]Outcome, len(pairs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i := range pairs {
		if egCtx.Err() != nil {
			break
		}

		i := i

		eg.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(egCtx); err != nil {
					return err
				}
			}

			if err := egCtx.Err(); err != nil {
				return err
			}

			outcomes[i] = resolveOne(egCtx, resolver, i, pairs[i], opts.Offset)

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return BatchResult{}, err
	}

	if err := ctx.Err(); err != nil {
		return BatchResult{}, err
	}

	res := BatchResult{
		RunID:    runID,
		Outcomes: outcomes,
		Actions:  map[precedence.Action]int{},
		Errors:   map[errs.Kind]int{},
	}

	for _, o := range outcomes {
		if o.Err != nil {
			res.Errors[o.Kind]++
			continue
		}

		res.Actions[o.Action]++
	}

	Logger().Info(ctx, fmt.Sprintf("resolved %d pairs: create=%d update=%d skip=%d malformed=%d",
		len(pairs),
		res.Actions[precedence.ActionCreate],
		res.Actions[precedence.ActionUpdate],
		res.Actions[precedence.ActionSkip],
		res.Malformed(),
	))

	return res, nil
}

func resolveOne(ctx context.Context, resolver *precedence.Resolver, idx int, pair precedence.Pair, offsetSpec string) Outcome {
	out := Outcome{Index: idx, ID: pair.ID}

	action, err := resolver.Decide(pair.Source, pair.Destination, offsetSpec)
	if err != nil {
		out.Err = err
		out.Kind = errs.KindOf(err)
		out.Error = err.Error()

		ctx = Logger().SetLoggerValueToContext(ctx, ValueLogPrefix{"pair": pair.ID, "index": idx})
		Logger().Warn(ctx, "malformed record pair: ", err)
		Metric().ErrorCount(metricStorage, out.Kind.String()).Inc(ctx, "pair", 1)

		return out
	}

	out.Action = action
	out.After = action != precedence.ActionSkip

	Logger().Trace(ctx, fmt.Sprintf("pair %q: %s", pair.ID, action))
	Metric().StatCount(metricStorage, action.String()).Inc(ctx, "pair", 1)

	return out
}
