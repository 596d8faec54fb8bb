package vecstore_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XSpoonAi/spoon-BeVec/pkg/vecstore"
)

func validRecord(id string) vecstore.Record {
	return vecstore.Record{
		ID:       id,
		Values:   []float32{0.1, 0.2, 0.3},
		Metadata: map[string]interface{}{"text": "hello"},
	}
}

func TestValidateRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []vecstore.Record
		wantErr string
	}{
		{
			name:    "valid batch",
			records: []vecstore.Record{validRecord("1"), validRecord("2")},
		},
		{
			name:    "empty batch",
			records: nil,
			wantErr: "records cannot be empty",
		},
		{
			name: "missing id",
			records: []vecstore.Record{
				validRecord("1"),
				{Values: []float32{0.1}, Metadata: map[string]interface{}{}},
			},
			wantErr: "record at index 1 missing id",
		},
		{
			name: "missing values",
			records: []vecstore.Record{
				{ID: "1", Metadata: map[string]interface{}{}},
			},
			wantErr: "record at index 0 missing values",
		},
		{
			name: "missing metadata",
			records: []vecstore.Record{
				validRecord("1"),
				validRecord("2"),
				{ID: "3", Values: []float32{0.1}},
			},
			wantErr: "record at index 2 missing metadata",
		},
		{
			name: "non-finite values",
			records: []vecstore.Record{
				{ID: "1", Values: []float32{0.1, float32(math.NaN())}, Metadata: map[string]interface{}{}},
			},
			wantErr: "malformed values",
		},
		{
			name: "infinite values",
			records: []vecstore.Record{
				{ID: "1", Values: []float32{float32(math.Inf(1))}, Metadata: map[string]interface{}{}},
			},
			wantErr: "malformed values",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := vecstore.ValidateRecords(tt.records)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, vecstore.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		vector  []float32
		topK    int
		wantErr bool
	}{
		{name: "valid", vector: []float32{0.1, 0.2}, topK: 10},
		{name: "top_k of one", vector: []float32{0.1}, topK: 1},
		{name: "empty vector", vector: nil, topK: 10, wantErr: true},
		{name: "zero top_k", vector: []float32{0.1}, topK: 0, wantErr: true},
		{name: "negative top_k", vector: []float32{0.1}, topK: -5, wantErr: true},
		{name: "nan component", vector: []float32{float32(math.NaN())}, topK: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := vecstore.ValidateQuery(tt.vector, tt.topK)
			if tt.wantErr {
				assert.ErrorIs(t, err, vecstore.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSimilarityFromDistance(t *testing.T) {
	assert.Equal(t, float32(0.9), vecstore.SimilarityFromDistance(0.1))
	assert.Equal(t, float32(1.0), vecstore.SimilarityFromDistance(0))
	assert.Equal(t, float32(0.0), vecstore.SimilarityFromDistance(1))

	// Out-of-range distances pass through unclamped.
	assert.Less(t, vecstore.SimilarityFromDistance(1.5), float32(0))
}

func TestMetric_Validate(t *testing.T) {
	for _, m := range []vecstore.Metric{vecstore.MetricCosine, vecstore.MetricEuclidean, vecstore.MetricDotProduct} {
		assert.NoError(t, m.Validate())
	}

	err := vecstore.Metric("manhattan").Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, vecstore.ErrValidation)
}
