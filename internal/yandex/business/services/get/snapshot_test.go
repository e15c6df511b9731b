package get

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketsync_api/internal/engine"
	"marketsync_api/internal/yandex/business/services"
)

func TestRemoteItemsAssemblesCampaignSnapshot(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/campaigns/100/offer-mapping-entries", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		// Две страницы офферов, пагинация по page_token.
		if r.URL.Query().Get("page_token") == "" {
			_, _ = w.Write([]byte(`{"result":{"paging":{"nextPageToken":"page2"},"offerMappingEntries":[{"offer":{"shopSku":"A"}}]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":{"paging":{},"offerMappingEntries":[{"offer":{"shopSku":"B"}}]}}`))
	})
	mux.HandleFunc("/campaigns/100/stocks", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"warehouses":[
			{"id":777,"skus":[{"sku":"A","items":[{"type":"FIT","count":3}]}]},
			{"id":778,"skus":[{"sku":"A","items":[{"type":"FIT","count":2}]}]}
		],"paging":{}}}`))
	})
	mux.HandleFunc("/campaigns/100/offer-prices", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"offers":[
			{"id":"A","price":{"value":5990,"currencyId":"RUR"}}
		],"paging":{}}}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	snapshot := NewCampaignSnapshot(services.NewBearerAuth("token-1"), server.URL, "100", engine.FulfillmentFBS, io.Discard)
	items, err := snapshot.RemoteItems(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].SKU)
	// Остатки складов кампании суммируются.
	assert.Equal(t, 5, items[0].Stock)
	assert.Equal(t, engine.FulfillmentFBS, items[0].Fulfillment)
	assert.Equal(t, "B", items[1].SKU)
	assert.Equal(t, 0, items[1].Stock)
	assert.True(t, items[1].Price.IsZero())
}

func TestRemoteItemsEmptyCampaign(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/campaigns/100/offer-mapping-entries", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"paging":{},"offerMappingEntries":[]}}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	snapshot := NewCampaignSnapshot(services.NewBearerAuth("token-1"), server.URL, "100", engine.FulfillmentDBS, io.Discard)
	items, err := snapshot.RemoteItems(context.Background())

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMergeSnapshots(t *testing.T) {
	fbs := []engine.RemoteItem{
		{SKU: "A", Stock: 1, Fulfillment: engine.FulfillmentFBS},
		{SKU: "B", Stock: 2, Fulfillment: engine.FulfillmentFBS},
	}
	dbs := []engine.RemoteItem{
		{SKU: "B", Stock: 3, Fulfillment: engine.FulfillmentDBS},
		{SKU: "C", Stock: 4, Fulfillment: engine.FulfillmentDBS},
	}

	merged := MergeSnapshots(fbs, dbs)

	require.Len(t, merged, 3)
	idx := engine.IndexRemote(merged)
	assert.Equal(t, engine.FulfillmentFBS, idx["A"].Fulfillment)
	// SKU в обеих кампаниях: модель неопределима, гадать нельзя.
	assert.Equal(t, engine.FulfillmentUnknown, idx["B"].Fulfillment)
	assert.Equal(t, engine.FulfillmentDBS, idx["C"].Fulfillment)
}
