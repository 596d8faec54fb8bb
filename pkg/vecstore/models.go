package vecstore

import "fmt"

// Metric is the distance metric used when a collection is created.
type Metric string

const (
	// MetricCosine is cosine similarity (default).
	MetricCosine Metric = "cosine"
	// MetricEuclidean is euclidean (L2) distance.
	MetricEuclidean Metric = "euclidean"
	// MetricDotProduct is the raw dot product.
	MetricDotProduct Metric = "dotproduct"
)

// Validate checks that the metric is one of the supported values.
func (m Metric) Validate() error {
	switch m {
	case MetricCosine, MetricEuclidean, MetricDotProduct:
		return nil
	}
	return fmt.Errorf("%w: metric must be one of %q, %q, %q, got %q",
		ErrValidation, MetricCosine, MetricEuclidean, MetricDotProduct, m)
}

// Record is the canonical provider-agnostic vector representation.
//
// A record is owned by the caller and is never mutated by this layer.
// All three fields are required; Values length is the embedding dimension,
// which is fixed per collection but not enforced here.
type Record struct {
	// ID is the caller-chosen unique identifier.
	ID string `json:"id"`

	// Values is the embedding vector.
	Values []float32 `json:"values"`

	// Metadata contains arbitrary key-value pairs stored with the vector.
	Metadata map[string]interface{} `json:"metadata"`
}

// Result is a single nearest-neighbor match returned by Query.
type Result struct {
	// ID is the identifier of the matched record.
	ID string `json:"id"`

	// Score is a similarity measure, higher is more similar. Backends that
	// report similarity natively pass their score through unchanged;
	// distance-reporting backends convert with SimilarityFromDistance.
	Score float32 `json:"score"`

	// Metadata is the metadata stored with the matched record.
	Metadata map[string]interface{} `json:"metadata"`
}

// CollectionInfo contains metadata about a collection.
type CollectionInfo struct {
	// Name is the collection name.
	Name string `json:"name"`

	// PointCount is the number of vectors in the collection.
	PointCount int `json:"point_count"`

	// VectorSize is the dimensionality of vectors in this collection.
	// Zero when the backend does not report it.
	VectorSize int `json:"vector_size"`
}
