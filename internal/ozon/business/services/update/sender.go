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
	request2 "marketsync_api/internal/ozon/business/models/dto/request"
	response2 "marketsync_api/internal/ozon/business/models/dto/response"
	"marketsync_api/internal/ozon/business/services"
	"marketsync_api/pkg/logger"
)

const (
	importStocksPath = "/v1/product/import/stocks"
	importPricesPath = "/v1/product/import/prices"

	// Лимиты эндпоинтов импорта.
	StockBatchSize = 100
	PriceBatchSize = 1000

	uploadTimeout = 60 * time.Second
)

// ImportSender шлёт батчи мутаций в Ozon Seller API: один батч -- один
// вызов import/stocks либо import/prices.
type ImportSender struct {
	client *http.Client
	apiURL string
	log    logger.Logger
	services.AuthEngine
}

func NewImportSender(auth services.AuthEngine, apiURL string, writer io.Writer) *ImportSender {
	if apiURL == "" {
		apiURL = "https://api-seller.ozon.ru"
	}
	return &ImportSender{
		client:     &http.Client{Timeout: uploadTimeout},
		apiURL:     apiURL,
		log:        logger.NewLogger(writer, "[OzonImport]"),
		AuthEngine: auth,
	}
}

func (s *ImportSender) Send(ctx context.Context, kind engine.BatchKind, batch []interface{}) ([]engine.BatchResult, error) {
	var path string
	var payload interface{}

	switch kind {
	case engine.BatchStocks:
		stocks := make([]request2.StockItem, 0, len(batch))
		for _, item := range batch {
			stock, ok := item.(request2.StockItem)
			if !ok {
				return nil, fmt.Errorf("unexpected stock batch item %T", item)
			}
			stocks = append(stocks, stock)
		}
		path = importStocksPath
		payload = request2.ImportStocks{Stocks: stocks}
	case engine.BatchPrices:
		prices := make([]request2.PriceItem, 0, len(batch))
		for _, item := range batch {
			price, ok := item.(request2.PriceItem)
			if !ok {
				return nil, fmt.Errorf("unexpected price batch item %T", item)
			}
			prices = append(prices, price)
		}
		path = importPricesPath
		payload = request2.ImportPrices{Prices: prices}
	default:
		return nil, fmt.Errorf("unknown batch kind %q", kind)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
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

	// 5xx -- транспортный сбой, подлежит ретраю выше.
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("ozon responded %s", resp.Status)
	}
	// 4xx -- платформа отвергла весь вызов, ретраить бессмысленно.
	if resp.StatusCode != http.StatusOK {
		s.log.Log("batch rejected with %s: %s", resp.Status, string(respBody))
		return rejectAll(batch, resp.Status), nil
	}

	var result response2.ImportResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshaling import result: %w", err)
	}

	results := make([]engine.BatchResult, 0, len(result.Result))
	for _, item := range result.Result {
		res := engine.BatchResult{SKU: item.OfferID}
		if !item.Updated || len(item.Errors) > 0 {
			res.Rejected = true
			if len(item.Errors) > 0 {
				res.Message = item.Errors[0].Message
			} else {
				res.Message = "not updated"
			}
		}
		results = append(results, res)
	}
	return results, nil
}

func rejectAll(batch []interface{}, message string) []engine.BatchResult {
	results := make([]engine.BatchResult, 0, len(batch))
	for _, item := range batch {
		var sku string
		switch v := item.(type) {
		case request2.StockItem:
			sku = v.OfferID
		case request2.PriceItem:
			sku = v.OfferID
		}
		results = append(results, engine.BatchResult{SKU: sku, Rejected: true, Message: message})
	}
	return results
}
