package update

import (
	"fmt"

	"marketsync_api/internal/engine"
	request2 "marketsync_api/internal/ozon/business/models/dto/request"
)

// StockOnlyAdapter: Ozon не различает модель размещения при обновлении
// остатков и цен, мутации транслируются в поля запроса напрямую.
type StockOnlyAdapter struct{}

func (StockOnlyAdapter) Adapt(m engine.Mutation, _ engine.RemoteItem) (interface{}, error) {
	switch m.Kind {
	case engine.StockUpdate:
		return request2.StockItem{OfferID: m.SKU, Stock: m.NewStock}, nil
	case engine.OutOfStockNotice:
		// Отдельного вызова "товар кончился" у Ozon нет, остаток
		// обнуляется тем же эндпоинтом import/stocks.
		return request2.StockItem{OfferID: m.SKU, Stock: 0}, nil
	case engine.PriceUpdate:
		return request2.PriceItem{
			AutoActionEnabled: "UNKNOWN",
			CurrencyCode:      "RUB",
			OfferID:           m.SKU,
			OldPrice:          "0",
			Price:             m.NewPrice.String(),
		}, nil
	}
	return nil, fmt.Errorf("unsupported mutation kind %q", m.Kind)
}
