package update

import (
	"fmt"
	"time"

	"marketsync_api/internal/engine"
	request2 "marketsync_api/internal/yandex/business/models/dto/request"
)

// CampaignAdapter переводит мутации в запросы одной кампании.
// Модель размещения SKU не меняется никогда: адаптер лишь обновляет
// остаток/цену в той кампании, где товар уже зарегистрирован.
type CampaignAdapter struct {
	Model       engine.FulfillmentModel
	WarehouseID int64
	Now         func() time.Time
}

func (a CampaignAdapter) Adapt(m engine.Mutation, remote engine.RemoteItem) (interface{}, error) {
	if remote.Fulfillment == engine.FulfillmentUnknown {
		return nil, fmt.Errorf("%w for sku %s", engine.ErrUnknownFulfillmentModel, m.SKU)
	}
	if remote.Fulfillment != a.Model {
		return nil, fmt.Errorf("sku %s is registered under %s, adapter serves %s", m.SKU, remote.Fulfillment, a.Model)
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}

	switch m.Kind {
	case engine.StockUpdate, engine.OutOfStockNotice:
		// Обнуление идёт тем же PUT offers/stocks с count=0.
		return request2.StockSKU{
			SKU:         m.SKU,
			WarehouseID: a.WarehouseID,
			Items: []request2.StockItem{
				{
					Count:     m.NewStock,
					Type:      "FIT",
					UpdatedAt: now().UTC().Format(time.RFC3339),
				},
			},
		}, nil
	case engine.PriceUpdate:
		return request2.OfferPrice{
			ID: m.SKU,
			Price: request2.PriceValue{
				Value:      m.NewPrice.IntPart(),
				CurrencyID: "RUR",
			},
		}, nil
	}
	return nil, fmt.Errorf("unsupported mutation kind %q", m.Kind)
}
