package services

import (
	"net/http"
)

// AuthEngine проставляет авторизационные заголовки Ozon Seller API.
type AuthEngine interface {
	SetApiKey(request *http.Request)
}

type SellerAuth struct {
	clientID string
	apiKey   string
}

func NewSellerAuth(clientID, apiKey string) *SellerAuth {
	if clientID == "" || apiKey == "" {
		return nil
	}
	return &SellerAuth{clientID: clientID, apiKey: apiKey}
}

func (a *SellerAuth) SetApiKey(request *http.Request) {
	request.Header.Set("Client-Id", a.clientID)
	request.Header.Set("Api-Key", a.apiKey)
}
