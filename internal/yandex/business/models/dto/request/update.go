package request

// StockItem -- одно измерение остатка внутри позиции.
type StockItem struct {
	Count     int    `json:"count"`
	Type      string `json:"type"`
	UpdatedAt string `json:"updatedAt"`
}

// StockSKU -- одна позиция PUT offers/stocks.
type StockSKU struct {
	SKU         string      `json:"sku"`
	WarehouseID int64       `json:"warehouseId"`
	Items       []StockItem `json:"items"`
}

type UpdateStocks struct {
	SKUs []StockSKU `json:"skus"`
}

type PriceValue struct {
	Value      int64  `json:"value"`
	CurrencyID string `json:"currencyId"`
}

// OfferPrice -- одна позиция POST offer-prices/updates.
type OfferPrice struct {
	ID    string     `json:"id"`
	Price PriceValue `json:"price"`
}

type UpdatePrices struct {
	Offers []OfferPrice `json:"offers"`
}
