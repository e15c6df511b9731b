package request

// StockItem -- одна позиция v1/product/import/stocks.
type StockItem struct {
	OfferID string `json:"offer_id"`
	Stock   int    `json:"stock"`
}

type ImportStocks struct {
	Stocks []StockItem `json:"stocks"`
}

// PriceItem -- одна позиция v1/product/import/prices.
type PriceItem struct {
	AutoActionEnabled string `json:"auto_action_enabled"`
	CurrencyCode      string `json:"currency_code"`
	OfferID           string `json:"offer_id"`
	OldPrice          string `json:"old_price"`
	Price             string `json:"price"`
}

type ImportPrices struct {
	Prices []PriceItem `json:"prices"`
}
