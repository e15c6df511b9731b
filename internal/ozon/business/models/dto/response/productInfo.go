package response

// StockDetail -- остаток одного типа склада (fbo/fbs).
type StockDetail struct {
	Type    string `json:"type"`
	Present int    `json:"present"`
}

type StockInfoItem struct {
	OfferID string        `json:"offer_id"`
	Stocks  []StockDetail `json:"stocks"`
}

type InfoStocks struct {
	Result InfoStocksResult `json:"result"`
}

type InfoStocksResult struct {
	Items  []StockInfoItem `json:"items"`
	LastID string          `json:"last_id"`
}

type PriceInfo struct {
	Price string `json:"price"`
}

type PriceInfoItem struct {
	OfferID string    `json:"offer_id"`
	Price   PriceInfo `json:"price"`
}

type InfoPrices struct {
	Result InfoPricesResult `json:"result"`
}

type InfoPricesResult struct {
	Items  []PriceInfoItem `json:"items"`
	LastID string          `json:"last_id"`
}
