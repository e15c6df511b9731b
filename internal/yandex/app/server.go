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
	"marketsync_api/internal/yandex/business/services"
	get2 "marketsync_api/internal/yandex/business/services/get"
	update2 "marketsync_api/internal/yandex/business/services/update"
	"marketsync_api/metrics"
	"marketsync_api/pkg/logger"
)

const platformName = "yandex_market"

// YandexServer гоняет полный цикл синхронизации по Яндекс Маркету.
// Платформа различает FBS и DBS: каждая модель -- своя кампания и свой
// склад, потоки мутаций диспетчеризуются раздельно.
type YandexServer struct {
	cfg      config.YandexConfig
	source   config.SourceConfig
	dispatch config.DispatchConfig
	history  *history.Repository
	log      logger.Logger
	writer   io.Writer
}

func NewYandexServer(cfg config.YandexConfig, source config.SourceConfig, dispatch config.DispatchConfig, hist *history.Repository, writer io.Writer) *YandexServer {
	return &YandexServer{
		cfg:      cfg,
		source:   source,
		dispatch: dispatch,
		history:  hist,
		log:      logger.NewLogger(writer, "[YandexPipeline]"),
		writer:   writer,
	}
}

func (s *YandexServer) Run(ctx context.Context, local []engine.LocalItem, inputSkips []engine.Skip) (engine.RunSummary, error) {
	runID := uuid.New()
	started := time.Now()
	s.log.Log("run %s started", runID)

	auth := services.NewBearerAuth(s.cfg.Token)
	if auth == nil {
		return engine.RunSummary{}, fmt.Errorf("yandex market token is not configured")
	}

	fbsSnapshot := get2.NewCampaignSnapshot(auth, s.cfg.ApiURL, s.cfg.FBS.CampaignID, engine.FulfillmentFBS, s.writer)
	fbsItems, err := fbsSnapshot.RemoteItems(ctx)
	if err != nil {
		return engine.RunSummary{}, fmt.Errorf("yandex fbs snapshot: %w", err)
	}
	dbsSnapshot := get2.NewCampaignSnapshot(auth, s.cfg.ApiURL, s.cfg.DBS.CampaignID, engine.FulfillmentDBS, s.writer)
	dbsItems, err := dbsSnapshot.RemoteItems(ctx)
	if err != nil {
		return engine.RunSummary{}, fmt.Errorf("yandex dbs snapshot: %w", err)
	}

	remote := get2.MergeSnapshots(fbsItems, dbsItems)
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

	remoteIdx := engine.IndexRemote(remote)
	fbsMuts, dbsMuts, unknown := splitByModel(mutations, remoteIdx)

	outcomes := make([]engine.Outcome, 0, len(mutations))
	outcomes = append(outcomes, s.dispatchCampaign(ctx, s.cfg.FBS, engine.FulfillmentFBS, fbsMuts, remoteIdx)...)
	outcomes = append(outcomes, s.dispatchCampaign(ctx, s.cfg.DBS, engine.FulfillmentDBS, dbsMuts, remoteIdx)...)
	outcomes = append(outcomes, unknown...)

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

func (s *YandexServer) dispatchCampaign(ctx context.Context, campaign config.CampaignConfig, model engine.FulfillmentModel, mutations []engine.Mutation, remoteIdx map[string]engine.RemoteItem) []engine.Outcome {
	if len(mutations) == 0 {
		return nil
	}

	policy := engine.Policy{
		MaxAttempts:      s.dispatch.MaxAttempts,
		InitialBackoff:   time.Duration(s.dispatch.InitialBackoffMs) * time.Millisecond,
		MinBatchInterval: time.Duration(s.dispatch.MinBatchIntervalMs) * time.Millisecond,
		StockBatchSize:   update2.StockBatchSize,
		PriceBatchSize:   update2.PriceBatchSize,
	}
	auth := services.NewBearerAuth(s.cfg.Token)
	adapter := update2.CampaignAdapter{Model: model, WarehouseID: campaign.WarehouseID}
	sender := update2.NewCampaignSender(auth, s.cfg.ApiURL, campaign.CampaignID, s.writer)
	dispatcher := engine.NewDispatcher(adapter, sender, policy, s.log)
	return dispatcher.Dispatch(ctx, mutations, remoteIdx)
}

// splitByModel раскладывает мутации по кампаниям согласно модели
// размещения из снапшота. Мутации SKU с неопределимой моделью сразу
// получают Skipped(UnknownFulfillmentModel) -- гадать нельзя.
func splitByModel(mutations []engine.Mutation, remoteIdx map[string]engine.RemoteItem) (fbs, dbs []engine.Mutation, unknown []engine.Outcome) {
	for _, m := range mutations {
		switch remoteIdx[m.SKU].Fulfillment {
		case engine.FulfillmentFBS:
			fbs = append(fbs, m)
		case engine.FulfillmentDBS:
			dbs = append(dbs, m)
		default:
			unknown = append(unknown, engine.Outcome{
				Mutation: m,
				Status:   engine.StatusSkipped,
				Reason:   engine.ReasonUnknownFulfillmentModel,
				Detail:   "fulfillment model is absent from the snapshot",
			})
		}
	}
	return fbs, dbs, unknown
}
