package update

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketsync_api/internal/engine"
	request2 "marketsync_api/internal/ozon/business/models/dto/request"
	"marketsync_api/internal/ozon/business/services"
)

func stockBatch(skus ...string) []interface{} {
	batch := make([]interface{}, 0, len(skus))
	for _, sku := range skus {
		batch = append(batch, request2.StockItem{OfferID: sku, Stock: 1})
	}
	return batch
}

func TestSendStocksPartialRejection(t *testing.T) {
	var gotPath, gotClientID, gotApiKey string
	var gotBody request2.ImportStocks

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotClientID = r.Header.Get("Client-Id")
		gotApiKey = r.Header.Get("Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_, _ = w.Write([]byte(`{"result":[
			{"product_id":1,"offer_id":"A","updated":true,"errors":[]},
			{"product_id":2,"offer_id":"B","updated":false,"errors":[{"code":"SKU_ARCHIVED","message":"sku is archived"}]},
			{"product_id":3,"offer_id":"C","updated":true,"errors":[]}
		]}`))
	}))
	defer server.Close()

	sender := NewImportSender(services.NewSellerAuth("client-1", "key-1"), server.URL, io.Discard)
	results, err := sender.Send(context.Background(), engine.BatchStocks, stockBatch("A", "B", "C"))
	require.NoError(t, err)

	assert.Equal(t, "/v1/product/import/stocks", gotPath)
	assert.Equal(t, "client-1", gotClientID)
	assert.Equal(t, "key-1", gotApiKey)
	require.Len(t, gotBody.Stocks, 3)

	require.Len(t, results, 3)
	assert.Equal(t, engine.BatchResult{SKU: "A"}, results[0])
	assert.Equal(t, engine.BatchResult{SKU: "B", Rejected: true, Message: "sku is archived"}, results[1])
	assert.Equal(t, engine.BatchResult{SKU: "C"}, results[2])
}

func TestSendPricesUsesPricesEndpoint(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"result":[{"product_id":1,"offer_id":"A","updated":true,"errors":[]}]}`))
	}))
	defer server.Close()

	sender := NewImportSender(services.NewSellerAuth("client-1", "key-1"), server.URL, io.Discard)
	batch := []interface{}{request2.PriceItem{OfferID: "A", Price: "100", OldPrice: "0", CurrencyCode: "RUB", AutoActionEnabled: "UNKNOWN"}}

	results, err := sender.Send(context.Background(), engine.BatchPrices, batch)
	require.NoError(t, err)
	assert.Equal(t, "/v1/product/import/prices", gotPath)
	require.Len(t, results, 1)
	assert.False(t, results[0].Rejected)
}

func TestSendServerErrorIsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	sender := NewImportSender(services.NewSellerAuth("client-1", "key-1"), server.URL, io.Discard)
	_, err := sender.Send(context.Background(), engine.BatchStocks, stockBatch("A"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestSendClientErrorRejectsWholeBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":3,"message":"invalid argument"}`))
	}))
	defer server.Close()

	sender := NewImportSender(services.NewSellerAuth("client-1", "key-1"), server.URL, io.Discard)
	results, err := sender.Send(context.Background(), engine.BatchStocks, stockBatch("A", "B"))

	// Отказ платформы не транспортная ошибка: ретраить нечего.
	require.NoError(t, err)
	require.Len(t, results, 2)
	for i, sku := range []string{"A", "B"} {
		assert.Equal(t, sku, results[i].SKU)
		assert.True(t, results[i].Rejected)
	}
}

func TestSendWrongBatchItemType(t *testing.T) {
	sender := NewImportSender(services.NewSellerAuth("client-1", "key-1"), "http://127.0.0.1:1", io.Discard)
	_, err := sender.Send(context.Background(), engine.BatchStocks, []interface{}{"not a stock item"})
	assert.Error(t, err)
}
