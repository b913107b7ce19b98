package models

import (
	"encoding/json"
	"time"
)

// EvaluationReport represents the metrics from one training run, computed on
// the held-out test partition. PredictedWins is reported alongside Precision
// so a degenerate all-negative run is visible rather than hidden behind a
// vacuous precision value.
type EvaluationReport struct {
	Precision     float64 `json:"precision"`
	Accuracy      float64 `json:"accuracy"`
	TestRows      int     `json:"test_rows"`
	PredictedWins int     `json:"predicted_wins"`
	ActualWins    int     `json:"actual_wins"`
	TrainRows     int     `json:"train_rows"`

	// Agreement metrics cover test fixtures where one side was predicted to
	// win and the opposing side's row was predicted not to win.
	AgreementFixtures  int     `json:"agreement_fixtures"`
	AgreementWins      int     `json:"agreement_wins"`
	AgreementPrecision float64 `json:"agreement_precision"`

	CutoffDate time.Time     `json:"cutoff_date"`
	Window     int           `json:"window"`
	Duration   time.Duration `json:"duration"`
}

// ToJSON exports the report to JSON
func (r EvaluationReport) ToJSON() string {
	data, _ := json.Marshal(r)
	return string(data)
}
