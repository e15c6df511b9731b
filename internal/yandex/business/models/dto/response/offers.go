package response

type Paging struct {
	NextPageToken string `json:"nextPageToken"`
}

type Offer struct {
	ShopSKU string `json:"shopSku"`
}

type OfferMappingEntry struct {
	Offer Offer `json:"offer"`
}

type OfferMappingsResult struct {
	Paging              Paging              `json:"paging"`
	OfferMappingEntries []OfferMappingEntry `json:"offerMappingEntries"`
}

type OfferMappings struct {
	Result OfferMappingsResult `json:"result"`
}

// Снапшот остатков по складам кампании.

type WarehouseStockItem struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type WarehouseSKU struct {
	SKU   string               `json:"sku"`
	Items []WarehouseStockItem `json:"items"`
}

type Warehouse struct {
	ID   int64          `json:"id"`
	SKUs []WarehouseSKU `json:"skus"`
}

type StocksResult struct {
	Warehouses []Warehouse `json:"warehouses"`
	Paging     Paging      `json:"paging"`
}

type Stocks struct {
	Result StocksResult `json:"result"`
}

// Снапшот цен кампании.

type OfferPriceValue struct {
	Value      float64 `json:"value"`
	CurrencyID string  `json:"currencyId"`
}

type OfferPriceEntry struct {
	ID    string          `json:"id"`
	Price OfferPriceValue `json:"price"`
}

type OfferPricesResult struct {
	Offers []OfferPriceEntry `json:"offers"`
	Paging Paging            `json:"paging"`
}

type OfferPrices struct {
	Result OfferPricesResult `json:"result"`
}
