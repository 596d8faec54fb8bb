package vecstore

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Tracer for OpenTelemetry instrumentation.
var qdrantTracer = otel.Tracer("bevec.vecstore.qdrant")

// qdrantAPIKeyEnv is the environment variable consulted when
// QdrantConfig.APIKey is empty.
const qdrantAPIKeyEnv = "QDRANT_API_KEY"

// qdrantIDNamespace is the UUID namespace for deriving point IDs from record
// IDs. Derivation must stay deterministic: re-upserting a record ID has to
// hit the same point so that upsert overwrites instead of duplicating.
var qdrantIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("bevec.vecstore.qdrant"))

// qdrantIDKey is the payload key carrying the caller-visible record ID.
// Prefixed to keep it out of the way of caller metadata keys.
const qdrantIDKey = "_bevec_id"

// QdrantConfig holds configuration for the Qdrant gRPC client.
type QdrantConfig struct {
	// Host is the Qdrant server hostname or IP address.
	// Default: "localhost"
	Host string

	// Port is the Qdrant gRPC port (not the HTTP REST port).
	// Default: 6334
	Port int

	// APIKey authenticates against the server. Falls back to the
	// QDRANT_API_KEY environment variable; absence of a resolvable key is a
	// configuration error.
	APIKey string

	// UseTLS enables TLS encryption for the gRPC connection.
	UseTLS bool

	// Metric is the distance metric for collections created through this
	// client. Default: cosine. Query scores from euclidean collections are
	// converted with SimilarityFromDistance; cosine and dotproduct scores
	// pass through unchanged.
	Metric Metric

	// MaxMessageSize is the maximum gRPC message size in bytes.
	// Default: 50MB
	MaxMessageSize int
}

// ApplyDefaults sets default values for unset fields.
func (c *QdrantConfig) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.Metric == "" {
		c.Metric = MetricCosine
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = 50 * 1024 * 1024
	}
}

// Validate validates the configuration.
func (c QdrantConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: host required", ErrConfiguration)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: invalid port: %d", ErrConfiguration, c.Port)
	}
	if err := c.Metric.Validate(); err != nil {
		return fmt.Errorf("%w: invalid metric %q", ErrConfiguration, c.Metric)
	}
	return nil
}

// resolveAPIKey returns the explicit key or the environment fallback.
func (c QdrantConfig) resolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv(qdrantAPIKeyEnv)
}

// QdrantProvider wraps the Qdrant gRPC client behind the Provider interface.
//
// The index-level surface (ListCollections, CreateCollection,
// DeleteCollection, Collection) is a thin validate-then-delegate layer over
// the native client; lifecycle failures wrap ErrProvider, handle operations
// wrap ErrVectorOperation.
type QdrantProvider struct {
	client *qdrant.Client
	config QdrantConfig
	logger *zap.Logger
}

// NewQdrantProvider creates a QdrantProvider with the given configuration.
// The API key is resolved from the config or QDRANT_API_KEY; a missing key
// is ErrConfiguration.
func NewQdrantProvider(config QdrantConfig, logger *zap.Logger) (*QdrantProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	apiKey := config.resolveAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("%w: qdrant API key not found (set %s or QdrantConfig.APIKey)",
			ErrConfiguration, qdrantAPIKeyEnv)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   config.Host,
		Port:   config.Port,
		APIKey: apiKey,
		UseTLS: config.UseTLS,
		GrpcOptions: []grpc.DialOption{
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(config.MaxMessageSize),
				grpc.MaxCallSendMsgSize(config.MaxMessageSize),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating qdrant client: %v", ErrConfiguration, err)
	}

	logger.Info("qdrant provider initialized",
		zap.String("host", config.Host),
		zap.Int("port", config.Port),
		zap.Bool("use_tls", config.UseTLS),
		zap.String("metric", string(config.Metric)),
	)

	return &QdrantProvider{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// Close closes the Qdrant gRPC connection.
func (p *QdrantProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// ListCollections returns the names of all collections.
func (p *QdrantProvider) ListCollections(ctx context.Context) (names []string, err error) {
	ctx, span := qdrantTracer.Start(ctx, "QdrantProvider.ListCollections")
	defer span.End()
	start := time.Now()
	defer func() { observeOperation("qdrant", "list_collections", start, err) }()

	names, err = p.client.ListCollections(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: listing collections: %v", ErrProvider, err)
	}

	span.SetAttributes(attribute.Int("collection_count", len(names)))
	span.SetStatus(codes.Ok, "success")
	return names, nil
}

// CreateCollection creates a collection with the given dimension and metric.
func (p *QdrantProvider) CreateCollection(ctx context.Context, name string, dimension int, metric Metric) (err error) {
	ctx, span := qdrantTracer.Start(ctx, "QdrantProvider.CreateCollection")
	defer span.End()
	start := time.Now()
	defer func() { observeOperation("qdrant", "create_collection", start, err) }()

	span.SetAttributes(
		attribute.String("collection", name),
		attribute.Int("dimension", dimension),
		attribute.String("metric", string(metric)),
	)

	if name == "" {
		return fmt.Errorf("%w: collection name cannot be empty", ErrValidation)
	}
	if dimension < 1 {
		return fmt.Errorf("%w: dimension must be greater than 0, got %d", ErrValidation, dimension)
	}
	if err = metric.Validate(); err != nil {
		return err
	}

	err = p.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrantDistance(metric),
		}),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: creating collection %s: %v", ErrProvider, name, err)
	}

	p.logger.Info("created qdrant collection",
		zap.String("collection", name),
		zap.Int("dimension", dimension),
		zap.String("metric", string(metric)),
	)

	span.SetStatus(codes.Ok, "success")
	return nil
}

// DeleteCollection deletes a collection. Deleting a collection that does not
// exist is success.
func (p *QdrantProvider) DeleteCollection(ctx context.Context, name string) (err error) {
	ctx, span := qdrantTracer.Start(ctx, "QdrantProvider.DeleteCollection")
	defer span.End()
	start := time.Now()
	defer func() { observeOperation("qdrant", "delete_collection", start, err) }()

	span.SetAttributes(attribute.String("collection", name))

	if name == "" {
		return fmt.Errorf("%w: collection name cannot be empty", ErrValidation)
	}

	if err = p.client.DeleteCollection(ctx, name); err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == grpccodes.NotFound {
			err = nil
			span.SetStatus(codes.Ok, "collection absent")
			return nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: deleting collection %s: %v", ErrProvider, name, err)
	}

	p.logger.Info("deleted qdrant collection", zap.String("collection", name))

	span.SetStatus(codes.Ok, "success")
	return nil
}

// CollectionInfo returns metadata about a collection.
func (p *QdrantProvider) CollectionInfo(ctx context.Context, name string) (info *CollectionInfo, err error) {
	ctx, span := qdrantTracer.Start(ctx, "QdrantProvider.CollectionInfo")
	defer span.End()
	start := time.Now()
	defer func() { observeOperation("qdrant", "collection_info", start, err) }()

	span.SetAttributes(attribute.String("collection", name))

	if name == "" {
		return nil, fmt.Errorf("%w: collection name cannot be empty", ErrValidation)
	}

	native, err := p.client.GetCollectionInfo(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: getting collection info for %s: %v", ErrProvider, name, err)
	}

	pointCount := 0
	if native.PointsCount != nil {
		pointCount = int(*native.PointsCount)
	}
	info = &CollectionInfo{
		Name:       name,
		PointCount: pointCount,
	}

	span.SetAttributes(attribute.Int("point_count", pointCount))
	span.SetStatus(codes.Ok, "success")
	return info, nil
}

// Collection returns a canonical handle for the named collection. This is a
// thin pass-through; the collection is not checked for existence.
func (p *QdrantProvider) Collection(ctx context.Context, name string) (Client, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: collection name cannot be empty", ErrValidation)
	}
	return &QdrantCollection{
		client: p.client,
		name:   name,
		metric: p.config.Metric,
		logger: p.logger,
	}, nil
}

// QdrantCollection wraps a single Qdrant collection behind the Client
// protocol.
type QdrantCollection struct {
	client *qdrant.Client
	name   string
	metric Metric
	logger *zap.Logger
}

// Upsert validates the batch, reshapes each record into a Qdrant point and
// issues one batched native upsert.
func (c *QdrantCollection) Upsert(ctx context.Context, records []Record) (err error) {
	ctx, span := qdrantTracer.Start(ctx, "QdrantCollection.Upsert")
	defer span.End()
	start := time.Now()
	defer func() { observeOperation("qdrant", "upsert", start, err) }()

	span.SetAttributes(
		attribute.String("collection", c.name),
		attribute.Int("record_count", len(records)),
	)

	if err = ValidateRecords(records); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	points := make([]*qdrant.PointStruct, len(records))
	for i, rec := range records {
		points[i] = &qdrant.PointStruct{
			Id:      qdrantPointID(rec.ID),
			Vectors: qdrant.NewVectors(rec.Values...),
			Payload: qdrantPayload(rec),
		}
	}

	_, err = c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.name,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: upserting %d vectors to %s: %v", ErrVectorOperation, len(points), c.name, err)
	}

	c.logger.Debug("upserted vectors to qdrant",
		zap.String("collection", c.name),
		zap.Int("count", len(points)),
	)

	span.SetStatus(codes.Ok, "success")
	return nil
}

// Query issues one native query and converts the scored points back into
// canonical results. Scores from euclidean collections are converted with
// SimilarityFromDistance; cosine and dotproduct scores pass through.
func (c *QdrantCollection) Query(ctx context.Context, vector []float32, topK int) (results []Result, err error) {
	ctx, span := qdrantTracer.Start(ctx, "QdrantCollection.Query")
	defer span.End()
	start := time.Now()
	defer func() { observeOperation("qdrant", "query", start, err) }()

	span.SetAttributes(
		attribute.String("collection", c.name),
		attribute.Int("top_k", topK),
	)

	if err = ValidateQuery(vector, topK); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	points, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.name,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: querying %s: %v", ErrVectorOperation, c.name, err)
	}

	results = make([]Result, len(points))
	for i, point := range points {
		results[i] = resultFromScoredPoint(point, c.metric)
	}

	span.SetAttributes(attribute.Int("results_count", len(results)))
	span.SetStatus(codes.Ok, "success")
	return results, nil
}

// qdrantDistance maps the canonical metric onto Qdrant's distance enum.
func qdrantDistance(metric Metric) qdrant.Distance {
	switch metric {
	case MetricEuclidean:
		return qdrant.Distance_Euclid
	case MetricDotProduct:
		return qdrant.Distance_Dot
	default:
		return qdrant.Distance_Cosine
	}
}

// qdrantPointID derives the native point ID for a record ID. Qdrant point
// IDs must be UUIDs or integers, so non-UUID record IDs are mapped to a
// deterministic SHA1 UUID; the caller-visible ID travels in the payload.
func qdrantPointID(id string) *qdrant.PointId {
	if _, err := uuid.Parse(id); err == nil {
		return qdrant.NewIDUUID(id)
	}
	return qdrant.NewIDUUID(uuid.NewSHA1(qdrantIDNamespace, []byte(id)).String())
}

// qdrantPayload builds the point payload: the record ID under a reserved key
// plus the caller metadata.
func qdrantPayload(rec Record) map[string]*qdrant.Value {
	payload := make(map[string]*qdrant.Value, len(rec.Metadata)+1)
	payload[qdrantIDKey] = &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: rec.ID}}

	for k, v := range rec.Metadata {
		switch val := v.(type) {
		case string:
			payload[k] = &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: val}}
		case int:
			payload[k] = &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(val)}}
		case int64:
			payload[k] = &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: val}}
		case float64:
			payload[k] = &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: val}}
		case bool:
			payload[k] = &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: val}}
		default:
			payload[k] = &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: fmt.Sprintf("%v", val)}}
		}
	}
	return payload
}

// resultFromScoredPoint converts a native scored point into a canonical
// result.
func resultFromScoredPoint(point *qdrant.ScoredPoint, metric Metric) Result {
	score := point.Score
	if metric == MetricEuclidean {
		score = SimilarityFromDistance(score)
	}

	result := Result{Score: score}
	if point.Payload != nil {
		result.Metadata = make(map[string]interface{}, len(point.Payload))
		for k, v := range point.Payload {
			switch val := v.Kind.(type) {
			case *qdrant.Value_StringValue:
				if k == qdrantIDKey {
					result.ID = val.StringValue
					continue
				}
				result.Metadata[k] = val.StringValue
			case *qdrant.Value_IntegerValue:
				result.Metadata[k] = val.IntegerValue
			case *qdrant.Value_DoubleValue:
				result.Metadata[k] = val.DoubleValue
			case *qdrant.Value_BoolValue:
				result.Metadata[k] = val.BoolValue
			}
		}
	}
	return result
}

// Ensure the qdrant types implement the canonical interfaces.
var (
	_ Provider = (*QdrantProvider)(nil)
	_ Client   = (*QdrantCollection)(nil)
)
