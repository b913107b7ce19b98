package models

import (
	"time"
)

// FeatureRow represents one training or prediction example: the identifying
// keys of a match plus the rolling features computed strictly from matches
// preceding it. Rows are recomputed on demand and never persisted as the
// source of truth.
type FeatureRow struct {
	Date     time.Time          `json:"date"`
	Team     string             `json:"team"`
	Opponent string             `json:"opponent"`
	Venue    Venue              `json:"venue"`
	Seq      int64              `json:"seq"`
	Features map[string]float64 `json:"features"`

	// Label is the outcome class of the row's own match, the only place the
	// current match contributes. LabelKnown is false for fixture rows built
	// at prediction time.
	Label      bool `json:"label"`
	LabelKnown bool `json:"label_known"`
}

// Vector aligns the row's features to an explicit name ordering. Alignment by
// recorded name, never by map iteration order, keeps inference-time vectors
// consistent with the ordering the model was trained on.
func (r *FeatureRow) Vector(order []string) ([]float64, error) {
	vec := make([]float64, len(order))
	for i, name := range order {
		v, ok := r.Features[name]
		if !ok {
			return nil, NewFeatureMismatchError(r.Team, r.Date, name, "feature missing from row")
		}
		vec[i] = v
	}
	return vec, nil
}
