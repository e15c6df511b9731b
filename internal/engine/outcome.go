package engine

type Status string

const (
	StatusApplied Status = "applied"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Reason уточняет, почему мутация не применилась или SKU выпал из прогона.
type Reason string

const (
	ReasonNone                    Reason = ""
	ReasonTransportError          Reason = "transport_error"
	ReasonRejectedByPlatform      Reason = "rejected_by_platform"
	ReasonUnknownFulfillmentModel Reason = "unknown_fulfillment_model"
	ReasonRunAborted              Reason = "run_aborted"
	ReasonNotFoundRemotely        Reason = "not_found_remotely"
	ReasonNotFoundLocally         Reason = "not_found_locally"
	ReasonInvalidInput            Reason = "invalid_input"
)

// Outcome -- терминальный результат одной мутации.
type Outcome struct {
	Mutation Mutation
	Status   Status
	Reason   Reason
	Detail   string
}

// Skip -- SKU, выпавший из прогона ещё до диспетчеризации
// (нет на одной из сторон либо битая строка выгрузки).
type Skip struct {
	SKU    string
	Reason Reason
	Detail string
}

// BatchResult -- поэлементный ответ платформы на один батч.
// Транспортные сбои сюда не попадают, они возвращаются ошибкой Send.
type BatchResult struct {
	SKU      string
	Rejected bool
	Message  string
}
