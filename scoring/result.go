package scoring

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingModelID is returned for a record without modelId.
	ErrMissingModelID = errors.New("scoring: modelId is required")

	// ErrMissingPredictionScore is returned when a stored record lacks predictionScore.
	ErrMissingPredictionScore = errors.New("scoring: predictionScore is required")
)

// Result is one scored entity.
type Result struct {
	UID             *string           `json:"uid"`
	Label           *float64          `json:"label"`
	ModelID         string            `json:"modelId"`
	PredictionScore float64           `json:"predictionScore"`
	Weight          *float64          `json:"weight"`
	MetadataMap     map[string]string `json:"metadataMap"`
}

// Validate checks the required fields.
func (r Result) Validate() error {
	if r.ModelID == "" {
		return ErrMissingModelID
	}
	return nil
}

func (r Result) String() string {
	uid := "<nil>"
	if r.UID != nil {
		uid = *r.UID
	}
	return fmt.Sprintf("Result(uid=%s, modelId=%s, score=%g)", uid, r.ModelID, r.PredictionScore)
}

// wireResult detects absent required fields on read.
type wireResult struct {
	UID             *string           `json:"uid"`
	Label           *float64          `json:"label"`
	ModelID         *string           `json:"modelId"`
	PredictionScore *float64          `json:"predictionScore"`
	Weight          *float64          `json:"weight"`
	MetadataMap     map[string]string `json:"metadataMap"`
}

func (w wireResult) result() (Result, error) {
	if w.ModelID == nil || *w.ModelID == "" {
		return Result{}, ErrMissingModelID
	}
	if w.PredictionScore == nil {
		return Result{}, ErrMissingPredictionScore
	}
	return Result{
		UID:             w.UID,
		Label:           w.Label,
		ModelID:         *w.ModelID,
		PredictionScore: *w.PredictionScore,
		Weight:          w.Weight,
		MetadataMap:     w.MetadataMap,
	}, nil
}

// Ptr returns a pointer to v, for the optional fields.
func Ptr[T any](v T) *T {
	return &v
}
