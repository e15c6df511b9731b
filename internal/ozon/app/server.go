package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"marketsync_api/config"
	"marketsync_api/internal/engine"
	"marketsync_api/internal/history"
	"marketsync_api/internal/ozon/business/services"
	get2 "marketsync_api/internal/ozon/business/services/get"
	update2 "marketsync_api/internal/ozon/business/services/update"
	"marketsync_api/metrics"
	"marketsync_api/pkg/logger"
)

const platformName = "ozon"

// OzonServer гоняет полный цикл синхронизации по Ozon: снапшот,
// реконсиляция, батчевая отправка, отчёт.
type OzonServer struct {
	cfg      config.OzonConfig
	source   config.SourceConfig
	dispatch config.DispatchConfig
	history  *history.Repository
	log      logger.Logger
	writer   io.Writer
}

func NewOzonServer(cfg config.OzonConfig, source config.SourceConfig, dispatch config.DispatchConfig, hist *history.Repository, writer io.Writer) *OzonServer {
	return &OzonServer{
		cfg:      cfg,
		source:   source,
		dispatch: dispatch,
		history:  hist,
		log:      logger.NewLogger(writer, "[OzonPipeline]"),
		writer:   writer,
	}
}

// Run выполняет один прогон. Ошибка означает срыв всего пайплайна
// платформы (например, не удалось снять снапшот); другой платформы она
// не касается.
func (s *OzonServer) Run(ctx context.Context, local []engine.LocalItem, inputSkips []engine.Skip) (engine.RunSummary, error) {
	runID := uuid.New()
	started := time.Now()
	s.log.Log("run %s started", runID)

	auth := services.NewSellerAuth(s.cfg.ClientID, s.cfg.ApiKey)
	if auth == nil {
		return engine.RunSummary{}, fmt.Errorf("ozon credentials are not configured")
	}

	snapshot := get2.NewSnapshotService(auth, s.cfg.ApiURL, s.writer)
	remote, err := snapshot.RemoteItems(ctx)
	if err != nil {
		return engine.RunSummary{}, fmt.Errorf("ozon snapshot: %w", err)
	}
	if len(remote) == 0 {
		s.log.Log("remote snapshot is empty")
	}

	// Каталог поступает извне пайплайна, перепроверяем его сами.
	local, invalid := engine.ValidateLocal(local)
	inputSkips = append(inputSkips, invalid...)

	if s.source.ZeroFillMissing {
		local = engine.ZeroFillMissing(local, remote)
	}

	mutations, skips := engine.Reconcile(local, remote)
	s.log.Log("reconciled: %d mutations, %d skips", len(mutations), len(skips))

	policy := engine.Policy{
		MaxAttempts:      s.dispatch.MaxAttempts,
		InitialBackoff:   time.Duration(s.dispatch.InitialBackoffMs) * time.Millisecond,
		MinBatchInterval: time.Duration(s.dispatch.MinBatchIntervalMs) * time.Millisecond,
		StockBatchSize:   update2.StockBatchSize,
		PriceBatchSize:   update2.PriceBatchSize,
	}
	sender := update2.NewImportSender(auth, s.cfg.ApiURL, s.writer)
	dispatcher := engine.NewDispatcher(update2.StockOnlyAdapter{}, sender, policy, s.log)

	outcomes := dispatcher.Dispatch(ctx, mutations, engine.IndexRemote(remote))

	allSkips := append(append([]engine.Skip(nil), inputSkips...), skips...)
	summary := engine.Summarize(runID, platformName, allSkips, outcomes)
	summary.StartedAt = started
	summary.FinishedAt = time.Now()

	for _, o := range outcomes {
		metrics.RecordMutation(platformName, string(o.Mutation.Kind), string(o.Status))
	}
	metrics.RecordRun(platformName, summary.FinishedAt.Sub(started))

	if s.history != nil {
		if err := s.history.SaveRun(ctx, summary); err != nil {
			s.log.Log("saving run history: %s", err)
		}
	}

	s.log.Log("run %s finished: applied=%d failed=%d skipped=%d",
		runID, summary.Applied, len(summary.Failed), len(summary.Skipped))
	return summary, nil
}
