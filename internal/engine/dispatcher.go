package engine

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"marketsync_api/pkg/logger"
)

// ErrUnknownFulfillmentModel возвращается адаптером, когда снапшот не
// определил модель размещения SKU. Гадать нельзя: мутация пропускается.
var ErrUnknownFulfillmentModel = errors.New("unknown fulfillment model")

// Adapter переводит мутацию в платформенный запрос.
type Adapter interface {
	Adapt(m Mutation, remote RemoteItem) (interface{}, error)
}

// Sender отправляет один батч одним сетевым вызовом. Транспортные сбои
// (таймаут, 5xx, обрыв соединения) возвращаются ошибкой и подлежат
// ретраю; бизнес-отказы платформы -- поэлементно в BatchResult и не
// ретраятся.
type Sender interface {
	Send(ctx context.Context, kind BatchKind, batch []interface{}) ([]BatchResult, error)
}

// Clock абстрагирует время ради тестов без реальных задержек.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Policy -- параметры диспетчеризации одной платформы.
type Policy struct {
	MaxAttempts      int
	InitialBackoff   time.Duration
	MinBatchInterval time.Duration
	StockBatchSize   int
	PriceBatchSize   int
}

func (p Policy) batchSize(kind BatchKind) int {
	size := p.StockBatchSize
	if kind == BatchPrices {
		size = p.PriceBatchSize
	}
	if size <= 0 {
		size = 1
	}
	return size
}

// Dispatcher группирует мутации в батчи, отправляет их с ретраями и
// фиксирует поэлементный исход. Порядок реконсилятора сохраняется:
// внутри платформы батчи уходят строго последовательно.
type Dispatcher struct {
	adapter Adapter
	sender  Sender
	policy  Policy
	limiter *rate.Limiter
	clock   Clock
	log     logger.Logger
}

func NewDispatcher(adapter Adapter, sender Sender, policy Policy, log logger.Logger) *Dispatcher {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	var limiter *rate.Limiter
	if policy.MinBatchInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(policy.MinBatchInterval), 1)
	}
	return &Dispatcher{
		adapter: adapter,
		sender:  sender,
		policy:  policy,
		limiter: limiter,
		clock:   systemClock{},
		log:     log,
	}
}

func (d *Dispatcher) WithClock(clock Clock) *Dispatcher {
	if clock != nil {
		d.clock = clock
	}
	return d
}

type pending struct {
	mutation Mutation
	request  interface{}
}

// Dispatch потребляет мутации ровно один раз и возвращает исход каждой.
// Прерывание контекста действует между батчами: уже отправленный батч
// дорабатывается, оставшиеся мутации помечаются Skipped(RunAborted).
func (d *Dispatcher) Dispatch(ctx context.Context, mutations []Mutation, remote map[string]RemoteItem) []Outcome {
	outcomes := make([]Outcome, 0, len(mutations))

	var batch []pending
	var batchKind BatchKind

	flush := func() {
		outcomes = append(outcomes, d.sendBatch(ctx, batchKind, batch)...)
		batch = nil
	}

	for _, m := range mutations {
		req, err := d.adapter.Adapt(m, remote[m.SKU])
		if err != nil {
			// Пропуск фиксируется на своём месте в общем порядке,
			// поэтому текущий батч закрывается досрочно.
			flush()
			outcomes = append(outcomes, Outcome{
				Mutation: m,
				Status:   StatusSkipped,
				Reason:   adaptReason(err),
				Detail:   err.Error(),
			})
			continue
		}

		kind := m.Kind.Batch()
		if len(batch) > 0 && (kind != batchKind || len(batch) >= d.policy.batchSize(batchKind)) {
			flush()
		}
		batchKind = kind
		batch = append(batch, pending{mutation: m, request: req})
	}
	flush()

	return outcomes
}

func (d *Dispatcher) sendBatch(ctx context.Context, kind BatchKind, batch []pending) []Outcome {
	if len(batch) == 0 {
		return nil
	}

	if ctx.Err() != nil {
		return markAll(batch, StatusSkipped, ReasonRunAborted, ctx.Err().Error())
	}
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return markAll(batch, StatusSkipped, ReasonRunAborted, err.Error())
		}
	}

	requests := make([]interface{}, len(batch))
	for i, p := range batch {
		requests[i] = p.request
	}

	var results []BatchResult
	var err error
	backoff := d.policy.InitialBackoff
	for attempt := 1; attempt <= d.policy.MaxAttempts; attempt++ {
		results, err = d.sender.Send(ctx, kind, requests)
		if err == nil {
			break
		}
		d.log.Log("batch %s (%d items) attempt %d/%d failed: %s", kind, len(batch), attempt, d.policy.MaxAttempts, err)
		if attempt == d.policy.MaxAttempts {
			break
		}
		if sleepErr := d.clock.Sleep(ctx, backoff); sleepErr != nil {
			break
		}
		backoff *= 2
	}
	if err != nil {
		return markAll(batch, StatusFailed, ReasonTransportError, err.Error())
	}

	rejected := make(map[string]string, len(results))
	for _, res := range results {
		if res.Rejected {
			rejected[res.SKU] = res.Message
		}
	}

	// Частичный отказ не ретраится: повтор переотправил бы уже
	// принятые мутации всего батча.
	outcomes := make([]Outcome, 0, len(batch))
	for _, p := range batch {
		if msg, ok := rejected[p.mutation.SKU]; ok {
			outcomes = append(outcomes, Outcome{Mutation: p.mutation, Status: StatusFailed, Reason: ReasonRejectedByPlatform, Detail: msg})
		} else {
			outcomes = append(outcomes, Outcome{Mutation: p.mutation, Status: StatusApplied})
		}
	}
	return outcomes
}

func markAll(batch []pending, status Status, reason Reason, detail string) []Outcome {
	outcomes := make([]Outcome, 0, len(batch))
	for _, p := range batch {
		outcomes = append(outcomes, Outcome{Mutation: p.mutation, Status: status, Reason: reason, Detail: detail})
	}
	return outcomes
}

func adaptReason(err error) Reason {
	if errors.Is(err, ErrUnknownFulfillmentModel) {
		return ReasonUnknownFulfillmentModel
	}
	return ReasonInvalidInput
}
