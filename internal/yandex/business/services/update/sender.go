package update

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"marketsync_api/internal/engine"
	request2 "marketsync_api/internal/yandex/business/models/dto/request"
	response2 "marketsync_api/internal/yandex/business/models/dto/response"
	"marketsync_api/internal/yandex/business/services"
	"marketsync_api/pkg/logger"
)

const (
	updateStocksPathFmt = "/campaigns/%s/offers/stocks"
	updatePricesPathFmt = "/campaigns/%s/offer-prices/updates"

	// Лимиты эндпоинтов кампании.
	StockBatchSize = 2000
	PriceBatchSize = 500

	uploadTimeout = 60 * time.Second
)

// CampaignSender шлёт батчи одной кампании: PUT offers/stocks для
// остатков, POST offer-prices/updates для цен. Эндпоинты отвечают на
// весь вызов целиком: при статусе ERROR отвергнут весь батч.
type CampaignSender struct {
	client     *http.Client
	apiURL     string
	campaignID string
	log        logger.Logger
	services.AuthEngine
}

func NewCampaignSender(auth services.AuthEngine, apiURL, campaignID string, writer io.Writer) *CampaignSender {
	if apiURL == "" {
		apiURL = "https://api.partner.market.yandex.ru"
	}
	return &CampaignSender{
		client:     &http.Client{Timeout: uploadTimeout},
		apiURL:     apiURL,
		campaignID: campaignID,
		log:        logger.NewLogger(writer, "[MarketUpdate]"),
		AuthEngine: auth,
	}
}

func (s *CampaignSender) Send(ctx context.Context, kind engine.BatchKind, batch []interface{}) ([]engine.BatchResult, error) {
	var method, path string
	var payload interface{}
	skus := make([]string, 0, len(batch))

	switch kind {
	case engine.BatchStocks:
		stocks := make([]request2.StockSKU, 0, len(batch))
		for _, item := range batch {
			stock, ok := item.(request2.StockSKU)
			if !ok {
				return nil, fmt.Errorf("unexpected stock batch item %T", item)
			}
			stocks = append(stocks, stock)
			skus = append(skus, stock.SKU)
		}
		method = http.MethodPut
		path = fmt.Sprintf(updateStocksPathFmt, s.campaignID)
		payload = request2.UpdateStocks{SKUs: stocks}
	case engine.BatchPrices:
		prices := make([]request2.OfferPrice, 0, len(batch))
		for _, item := range batch {
			price, ok := item.(request2.OfferPrice)
			if !ok {
				return nil, fmt.Errorf("unexpected price batch item %T", item)
			}
			prices = append(prices, price)
			skus = append(skus, price.ID)
		}
		method = http.MethodPost
		path = fmt.Sprintf(updatePricesPathFmt, s.campaignID)
		payload = request2.UpdatePrices{Offers: prices}
	default:
		return nil, fmt.Errorf("unknown batch kind %q", kind)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.apiURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	s.SetApiKey(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("market responded %s", resp.Status)
	}

	var status response2.UpdateStatus
	if err := json.Unmarshal(respBody, &status); err != nil {
		return nil, fmt.Errorf("unmarshaling update status: %w", err)
	}

	if resp.StatusCode != http.StatusOK || status.Status == "ERROR" {
		message := resp.Status
		if len(status.Errors) > 0 {
			message = status.Errors[0].Message
		}
		s.log.Log("campaign %s rejected %s batch of %d: %s", s.campaignID, kind, len(batch), message)
		results := make([]engine.BatchResult, 0, len(skus))
		for _, sku := range skus {
			results = append(results, engine.BatchResult{SKU: sku, Rejected: true, Message: message})
		}
		return results, nil
	}

	// Статус OK: весь батч принят.
	return nil, nil
}
