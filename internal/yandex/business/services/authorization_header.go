package services

import (
	"net/http"
)

// AuthEngine проставляет авторизацию Yandex Market Partner API.
type AuthEngine interface {
	SetApiKey(request *http.Request)
}

type BearerAuth struct {
	token string
}

func NewBearerAuth(token string) *BearerAuth {
	if token == "" {
		return nil
	}
	return &BearerAuth{token: token}
}

func (b *BearerAuth) SetApiKey(request *http.Request) {
	request.Header.Set("Authorization", "Bearer "+b.token)
}
