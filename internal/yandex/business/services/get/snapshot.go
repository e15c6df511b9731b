package get

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"marketsync_api/internal/engine"
	response2 "marketsync_api/internal/yandex/business/models/dto/response"
	"marketsync_api/internal/yandex/business/services"
	"marketsync_api/pkg/logger"
)

const (
	DefaultApiURL = "https://api.partner.market.yandex.ru"

	offerMappingsPathFmt = "/campaigns/%s/offer-mapping-entries"
	stocksPathFmt        = "/campaigns/%s/stocks"
	offerPricesPathFmt   = "/campaigns/%s/offer-prices"

	pageLimit        = 200
	requestRateLimit = 60 // запросов в минуту
	requestTimeout   = 60 * time.Second
)

// CampaignSnapshot собирает состояние одной кампании (FBS либо DBS).
// Модель размещения SKU определяется кампанией, в которой он найден.
type CampaignSnapshot struct {
	client     *http.Client
	limiter    *rate.Limiter
	apiURL     string
	campaignID string
	model      engine.FulfillmentModel
	log        logger.Logger
	services.AuthEngine
}

func NewCampaignSnapshot(auth services.AuthEngine, apiURL, campaignID string, model engine.FulfillmentModel, writer io.Writer) *CampaignSnapshot {
	if apiURL == "" {
		apiURL = DefaultApiURL
	}
	return &CampaignSnapshot{
		client:     &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/requestRateLimit), requestRateLimit),
		apiURL:     apiURL,
		campaignID: campaignID,
		model:      model,
		log:        logger.NewLogger(writer, fmt.Sprintf("[MarketSnapshot:%s]", model)),
		AuthEngine: auth,
	}
}

func (s *CampaignSnapshot) RemoteItems(ctx context.Context) ([]engine.RemoteItem, error) {
	skus, err := s.offerSKUs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing campaign %s offers: %w", s.campaignID, err)
	}
	if len(skus) == 0 {
		s.log.Log("campaign %s has no offers", s.campaignID)
		return nil, nil
	}

	stocks, err := s.stocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching campaign %s stocks: %w", s.campaignID, err)
	}
	prices, err := s.prices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching campaign %s prices: %w", s.campaignID, err)
	}

	items := make([]engine.RemoteItem, 0, len(skus))
	for _, sku := range skus {
		items = append(items, engine.RemoteItem{
			SKU:         sku,
			Stock:       stocks[sku],
			Price:       prices[sku],
			Fulfillment: s.model,
		})
	}
	s.log.Log("campaign %s snapshot assembled: %d items", s.campaignID, len(items))
	return items, nil
}

func (s *CampaignSnapshot) offerSKUs(ctx context.Context) ([]string, error) {
	var skus []string
	pageToken := ""
	for {
		var page response2.OfferMappings
		path := fmt.Sprintf(offerMappingsPathFmt, s.campaignID)
		if err := s.getJSON(ctx, path, pageToken, &page); err != nil {
			return nil, err
		}
		for _, entry := range page.Result.OfferMappingEntries {
			skus = append(skus, entry.Offer.ShopSKU)
		}
		pageToken = page.Result.Paging.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return skus, nil
}

func (s *CampaignSnapshot) stocks(ctx context.Context) (map[string]int, error) {
	stocks := make(map[string]int)
	pageToken := ""
	for {
		var page response2.Stocks
		path := fmt.Sprintf(stocksPathFmt, s.campaignID)
		if err := s.getJSON(ctx, path, pageToken, &page); err != nil {
			return nil, err
		}
		for _, warehouse := range page.Result.Warehouses {
			for _, sku := range warehouse.SKUs {
				total := 0
				for _, item := range sku.Items {
					total += item.Count
				}
				stocks[sku.SKU] += total
			}
		}
		pageToken = page.Result.Paging.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return stocks, nil
}

func (s *CampaignSnapshot) prices(ctx context.Context) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal)
	pageToken := ""
	for {
		var page response2.OfferPrices
		path := fmt.Sprintf(offerPricesPathFmt, s.campaignID)
		if err := s.getJSON(ctx, path, pageToken, &page); err != nil {
			return nil, err
		}
		for _, offer := range page.Result.Offers {
			prices[offer.ID] = decimal.NewFromFloat(offer.Price.Value)
		}
		pageToken = page.Result.Paging.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return prices, nil
}

func (s *CampaignSnapshot) getJSON(ctx context.Context, path, pageToken string, out interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	query := url.Values{}
	query.Set("limit", fmt.Sprint(pageLimit))
	if pageToken != "" {
		query.Set("page_token", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+path+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	s.SetApiKey(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// MergeSnapshots объединяет кампании FBS и DBS в единый снапшот
// платформы. SKU, встретившийся в обеих кампаниях, получает пустую
// модель: адаптер такие мутации отвергнет, а не будет гадать.
func MergeSnapshots(fbs, dbs []engine.RemoteItem) []engine.RemoteItem {
	merged := make([]engine.RemoteItem, 0, len(fbs)+len(dbs))
	index := make(map[string]int, len(fbs))

	for _, item := range fbs {
		index[item.SKU] = len(merged)
		merged = append(merged, item)
	}
	for _, item := range dbs {
		if i, ok := index[item.SKU]; ok {
			merged[i].Fulfillment = engine.FulfillmentUnknown
			continue
		}
		merged = append(merged, item)
	}
	return merged
}
