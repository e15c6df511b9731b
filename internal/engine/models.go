package engine

import (
	"github.com/shopspring/decimal"
)

// FulfillmentModel -- схема размещения товара на маркетплейсе.
type FulfillmentModel string

const (
	FulfillmentFBS FulfillmentModel = "FBS"
	FulfillmentDBS FulfillmentModel = "DBS"
	// FulfillmentUnknown -- снапшот не смог определить модель.
	FulfillmentUnknown FulfillmentModel = ""
)

// LocalItem -- строка локального каталога (выгрузка поставщика).
// Неизменяема в течение прогона.
type LocalItem struct {
	SKU   string
	Stock int
	Price decimal.Decimal
}

// RemoteItem -- состояние товара на маркетплейсе на момент снапшота.
type RemoteItem struct {
	SKU         string
	Stock       int
	Price       decimal.Decimal
	Fulfillment FulfillmentModel
}

// IndexRemote строит индекс снапшота по SKU.
func IndexRemote(remote []RemoteItem) map[string]RemoteItem {
	idx := make(map[string]RemoteItem, len(remote))
	for _, r := range remote {
		idx[r.SKU] = r
	}
	return idx
}

type MutationKind string

const (
	StockUpdate MutationKind = "stock_update"
	PriceUpdate MutationKind = "price_update"
	// OutOfStockNotice -- товар кончился: остаток обнуляется отдельным
	// видом мутации, чтобы обнуление было видно в отчёте и метриках.
	OutOfStockNotice MutationKind = "out_of_stock_notice"
)

// BatchKind -- класс батча. Остатки и цены уходят на разные эндпоинты
// и не смешиваются в одном вызове.
type BatchKind string

const (
	BatchStocks BatchKind = "stocks"
	BatchPrices BatchKind = "prices"
)

func (k MutationKind) Batch() BatchKind {
	if k == PriceUpdate {
		return BatchPrices
	}
	return BatchStocks
}

// Mutation -- намерение изменить состояние товара на маркетплейсе.
// Значения абсолютные ("выставить X"), поэтому повторная отправка
// одной и той же мутации безопасна.
type Mutation struct {
	SKU       string
	Kind      MutationKind
	NewStock  int
	NewPrice  decimal.Decimal
	PrevStock int
	PrevPrice decimal.Decimal
}
