package engine

import (
	"time"

	"github.com/google/uuid"
)

// ItemIssue -- одна строка отчёта: SKU и причина.
type ItemIssue struct {
	SKU    string
	Reason Reason
	Detail string
}

// RunSummary -- итог прогона одной платформы. Единственный источник
// правды для оператора: код выхода процесса и алерты строятся по нему.
type RunSummary struct {
	RunID      uuid.UUID
	Platform   string
	StartedAt  time.Time
	FinishedAt time.Time
	Applied    int
	Failed     []ItemIssue
	Skipped    []ItemIssue
}

// Ok сообщает, требует ли прогон внимания оператора.
func (s RunSummary) Ok() bool {
	return len(s.Failed) == 0
}

// Summarize сворачивает пропуски реконсилятора и исходы диспетчера в
// отчёт. Чистая агрегация: порядок входа сохраняется, ретраев и
// мутаций здесь нет.
func Summarize(runID uuid.UUID, platform string, skips []Skip, outcomes []Outcome) RunSummary {
	s := RunSummary{RunID: runID, Platform: platform}

	for _, sk := range skips {
		s.Skipped = append(s.Skipped, ItemIssue{SKU: sk.SKU, Reason: sk.Reason, Detail: sk.Detail})
	}
	for _, o := range outcomes {
		switch o.Status {
		case StatusApplied:
			s.Applied++
		case StatusFailed:
			s.Failed = append(s.Failed, ItemIssue{SKU: o.Mutation.SKU, Reason: o.Reason, Detail: o.Detail})
		case StatusSkipped:
			s.Skipped = append(s.Skipped, ItemIssue{SKU: o.Mutation.SKU, Reason: o.Reason, Detail: o.Detail})
		}
	}
	return s
}
