package request

type Filter struct {
	Visibility string `json:"visibility"`
}

// ProductList -- пагинация каталога продавца по last_id.
type ProductList struct {
	Filter Filter `json:"filter"`
	LastID string `json:"last_id"`
	Limit  int    `json:"limit"`
}

// ProductInfo -- запрос остатков/цен по списку offer_id.
type ProductInfo struct {
	Filter InfoFilter `json:"filter"`
	LastID string     `json:"last_id"`
	Limit  int        `json:"limit"`
}

type InfoFilter struct {
	OfferID    []string `json:"offer_id"`
	Visibility string   `json:"visibility"`
}
