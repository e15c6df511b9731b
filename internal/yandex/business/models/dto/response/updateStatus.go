package response

type UpdateError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UpdateStatus -- ответ эндпоинтов обновления: "OK" либо "ERROR" со
// списком причин. Частичных ответов эти эндпоинты не дают.
type UpdateStatus struct {
	Status string        `json:"status"`
	Errors []UpdateError `json:"errors"`
}
