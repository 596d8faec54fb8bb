package vecstore

import (
	"fmt"
	"math"
)

// ValidateRecords checks a batch of records against the canonical shape.
//
// The whole batch is validated before any provider call is issued, so a
// malformed record never causes partial application of earlier records.
// The first violation fails with the offending index and field named.
func ValidateRecords(records []Record) error {
	if len(records) == 0 {
		return fmt.Errorf("%w: records cannot be empty", ErrValidation)
	}
	for i, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("%w: record at index %d missing id", ErrValidation, i)
		}
		if len(rec.Values) == 0 {
			return fmt.Errorf("%w: record at index %d missing values", ErrValidation, i)
		}
		if err := validateVector(rec.Values); err != nil {
			return fmt.Errorf("%w: record at index %d has malformed values: %v", ErrValidation, i, err)
		}
		if rec.Metadata == nil {
			return fmt.Errorf("%w: record at index %d missing metadata", ErrValidation, i)
		}
	}
	return nil
}

// ValidateQuery checks query parameters before any provider call.
func ValidateQuery(vector []float32, topK int) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: query vector cannot be empty", ErrValidation)
	}
	if err := validateVector(vector); err != nil {
		return fmt.Errorf("%w: malformed query vector: %v", ErrValidation, err)
	}
	if topK < 1 {
		return fmt.Errorf("%w: top_k must be greater than 0, got %d", ErrValidation, topK)
	}
	return nil
}

func validateVector(values []float32) error {
	for i, v := range values {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite number at position %d", i)
		}
	}
	return nil
}

// SimilarityFromDistance converts a provider-reported distance into a
// similarity-like score. The conversion is linear (1 - d) and assumes the
// distance is normalized to [0,1]; out-of-range distances produce
// out-of-range scores, which are passed through unclamped.
func SimilarityFromDistance(distance float32) float32 {
	return 1 - distance
}
