package get

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"marketsync_api/internal/engine"
	request2 "marketsync_api/internal/ozon/business/models/dto/request"
	response2 "marketsync_api/internal/ozon/business/models/dto/response"
	"marketsync_api/internal/ozon/business/services"
	"marketsync_api/pkg/logger"
)

const (
	DefaultApiURL = "https://api-seller.ozon.ru"

	productListPath = "/v2/product/list"
	stocksInfoPath  = "/v3/product/info/stocks"
	pricesInfoPath  = "/v4/product/info/prices"

	pageLimit        = 1000
	requestRateLimit = 50 // запросов в минуту
	requestTimeout   = 60 * time.Second
)

// SnapshotService собирает текущее состояние каталога продавца на Ozon:
// offer_id, остаток и цену по каждому товару.
type SnapshotService struct {
	client  *http.Client
	limiter *rate.Limiter
	apiURL  string
	log     logger.Logger
	services.AuthEngine
}

func NewSnapshotService(auth services.AuthEngine, apiURL string, writer io.Writer) *SnapshotService {
	if apiURL == "" {
		apiURL = DefaultApiURL
	}
	return &SnapshotService{
		client:     &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/requestRateLimit), requestRateLimit),
		apiURL:     apiURL,
		log:        logger.NewLogger(writer, "[OzonSnapshot]"),
		AuthEngine: auth,
	}
}

// RemoteItems возвращает снапшот каталога. Пустой каталог -- валидный
// (хоть и необычный) ответ, не ошибка.
func (s *SnapshotService) RemoteItems(ctx context.Context) ([]engine.RemoteItem, error) {
	offerIDs, err := s.offerIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	if len(offerIDs) == 0 {
		s.log.Log("seller catalog is empty")
		return nil, nil
	}

	stocks, err := s.stocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching stocks: %w", err)
	}
	prices, err := s.prices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching prices: %w", err)
	}

	items := make([]engine.RemoteItem, 0, len(offerIDs))
	for _, offerID := range offerIDs {
		items = append(items, engine.RemoteItem{
			SKU:   offerID,
			Stock: stocks[offerID],
			Price: prices[offerID],
		})
	}
	s.log.Log("snapshot assembled: %d items", len(items))
	return items, nil
}

func (s *SnapshotService) offerIDs(ctx context.Context) ([]string, error) {
	var offerIDs []string
	lastID := ""
	for {
		payload := request2.ProductList{
			Filter: request2.Filter{Visibility: "ALL"},
			LastID: lastID,
			Limit:  pageLimit,
		}
		var page response2.ProductList
		if err := s.postJSON(ctx, productListPath, payload, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Result.Items {
			offerIDs = append(offerIDs, item.OfferID)
		}
		lastID = page.Result.LastID
		if len(offerIDs) >= page.Result.Total || lastID == "" {
			break
		}
	}
	return offerIDs, nil
}

func (s *SnapshotService) stocks(ctx context.Context) (map[string]int, error) {
	stocks := make(map[string]int)
	lastID := ""
	for {
		payload := request2.ProductInfo{
			Filter: request2.InfoFilter{Visibility: "ALL"},
			LastID: lastID,
			Limit:  pageLimit,
		}
		var page response2.InfoStocks
		if err := s.postJSON(ctx, stocksInfoPath, payload, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Result.Items {
			total := 0
			for _, detail := range item.Stocks {
				total += detail.Present
			}
			stocks[item.OfferID] = total
		}
		lastID = page.Result.LastID
		if len(page.Result.Items) < pageLimit || lastID == "" {
			break
		}
	}
	return stocks, nil
}

func (s *SnapshotService) prices(ctx context.Context) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal)
	lastID := ""
	for {
		payload := request2.ProductInfo{
			Filter: request2.InfoFilter{Visibility: "ALL"},
			LastID: lastID,
			Limit:  pageLimit,
		}
		var page response2.InfoPrices
		if err := s.postJSON(ctx, pricesInfoPath, payload, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Result.Items {
			price, err := decimal.NewFromString(item.Price.Price)
			if err != nil {
				s.log.Log("unreadable price %q for %s, assuming zero", item.Price.Price, item.OfferID)
				price = decimal.Zero
			}
			prices[item.OfferID] = price
		}
		lastID = page.Result.LastID
		if len(page.Result.Items) < pageLimit || lastID == "" {
			break
		}
	}
	return prices, nil
}

func (s *SnapshotService) postJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
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
