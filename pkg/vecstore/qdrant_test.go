package vecstore

import (
	"testing"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQdrantConfig_ApplyDefaults(t *testing.T) {
	cfg := QdrantConfig{}
	cfg.ApplyDefaults()

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 6334, cfg.Port)
	assert.Equal(t, MetricCosine, cfg.Metric)
	assert.Equal(t, 50*1024*1024, cfg.MaxMessageSize)
}

func TestQdrantConfig_ApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := QdrantConfig{
		Host:           "qdrant.example.com",
		Port:           7000,
		Metric:         MetricEuclidean,
		MaxMessageSize: 1024,
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "qdrant.example.com", cfg.Host)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, MetricEuclidean, cfg.Metric)
	assert.Equal(t, 1024, cfg.MaxMessageSize)
}

func TestQdrantConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     QdrantConfig
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  QdrantConfig{Host: "localhost", Port: 6334, Metric: MetricCosine},
		},
		{
			name:    "missing host",
			cfg:     QdrantConfig{Port: 6334, Metric: MetricCosine},
			wantErr: true,
		},
		{
			name:    "invalid port",
			cfg:     QdrantConfig{Host: "localhost", Port: 70000, Metric: MetricCosine},
			wantErr: true,
		},
		{
			name:    "invalid metric",
			cfg:     QdrantConfig{Host: "localhost", Port: 6334, Metric: Metric("manhattan")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQdrantConfig_ResolveAPIKey(t *testing.T) {
	t.Setenv(qdrantAPIKeyEnv, "env-key")

	assert.Equal(t, "explicit-key", QdrantConfig{APIKey: "explicit-key"}.resolveAPIKey())
	assert.Equal(t, "env-key", QdrantConfig{}.resolveAPIKey())
}

func TestNewQdrantProvider_MissingAPIKey(t *testing.T) {
	t.Setenv(qdrantAPIKeyEnv, "")

	_, err := NewQdrantProvider(QdrantConfig{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), qdrantAPIKeyEnv)
}

func TestNewQdrantProvider_APIKeyFromEnv(t *testing.T) {
	t.Setenv(qdrantAPIKeyEnv, "env-key")

	// Client creation does not dial, so this succeeds without a server.
	provider, err := NewQdrantProvider(QdrantConfig{}, nil)
	require.NoError(t, err)
	defer provider.Close()

	assert.Equal(t, "localhost", provider.config.Host)
	assert.Equal(t, 6334, provider.config.Port)
}

func TestQdrantDistance(t *testing.T) {
	assert.Equal(t, qdrant.Distance_Cosine, qdrantDistance(MetricCosine))
	assert.Equal(t, qdrant.Distance_Euclid, qdrantDistance(MetricEuclidean))
	assert.Equal(t, qdrant.Distance_Dot, qdrantDistance(MetricDotProduct))
}

func TestQdrantPointID_Deterministic(t *testing.T) {
	// Re-upserting a record ID must map to the same point so the upsert
	// overwrites instead of duplicating.
	first := qdrantPointID("doc-1")
	second := qdrantPointID("doc-1")
	assert.Equal(t, first.GetUuid(), second.GetUuid())

	other := qdrantPointID("doc-2")
	assert.NotEqual(t, first.GetUuid(), other.GetUuid())
}

func TestQdrantPointID_UUIDPassthrough(t *testing.T) {
	id := uuid.NewString()
	assert.Equal(t, id, qdrantPointID(id).GetUuid())
}

func TestQdrantPayload_RoundTrip(t *testing.T) {
	rec := Record{
		ID:     "doc-1",
		Values: []float32{0.1, 0.2},
		Metadata: map[string]interface{}{
			"text":  "hello",
			"count": 42,
			"score": 0.5,
			"flag":  true,
		},
	}

	payload := qdrantPayload(rec)
	require.Contains(t, payload, qdrantIDKey)
	assert.Equal(t, "doc-1", payload[qdrantIDKey].GetStringValue())

	result := resultFromScoredPoint(&qdrant.ScoredPoint{
		Score:   0.87,
		Payload: payload,
	}, MetricCosine)

	assert.Equal(t, "doc-1", result.ID)
	assert.Equal(t, float32(0.87), result.Score)
	assert.Equal(t, "hello", result.Metadata["text"])
	assert.Equal(t, int64(42), result.Metadata["count"])
	assert.Equal(t, 0.5, result.Metadata["score"])
	assert.Equal(t, true, result.Metadata["flag"])

	// The reserved ID key does not leak into caller metadata.
	assert.NotContains(t, result.Metadata, qdrantIDKey)
}

func TestResultFromScoredPoint_EuclideanConversion(t *testing.T) {
	point := &qdrant.ScoredPoint{
		Score: 0.1,
		Payload: map[string]*qdrant.Value{
			qdrantIDKey: {Kind: &qdrant.Value_StringValue{StringValue: "doc-1"}},
		},
	}

	// Euclidean collections report distance; the score is converted to a
	// similarity. Cosine and dotproduct scores pass through unchanged.
	assert.Equal(t, float32(0.9), resultFromScoredPoint(point, MetricEuclidean).Score)
	assert.Equal(t, float32(0.1), resultFromScoredPoint(point, MetricCosine).Score)
	assert.Equal(t, float32(0.1), resultFromScoredPoint(point, MetricDotProduct).Score)
}
