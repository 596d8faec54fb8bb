package vecstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	chromem "github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Tracer for OpenTelemetry instrumentation.
var chromemTracer = otel.Tracer("bevec.vecstore.chromem")

// chromemPathEnv is the environment variable consulted when
// ChromemConfig.Path is empty.
const chromemPathEnv = "BEVEC_CHROMEM_PATH"

// defaultChromemPath is used when neither the config nor the environment
// names a persistence directory.
const defaultChromemPath = "./bevec_db"

// ChromemConfig holds configuration for the chromem-go embedded store.
type ChromemConfig struct {
	// Path is the directory for persistent storage. Falls back to the
	// BEVEC_CHROMEM_PATH environment variable, then to "./bevec_db".
	Path string

	// Compress enables gzip compression for stored data.
	Compress bool
}

// resolvePath returns the explicit path, the environment fallback or the
// default, in that order.
func (c ChromemConfig) resolvePath() string {
	if c.Path != "" {
		return c.Path
	}
	if p := os.Getenv(chromemPathEnv); p != "" {
		return p
	}
	return defaultChromemPath
}

// ChromemProvider wraps a chromem-go persistent database behind the Provider
// interface.
//
// chromem-go is an embedded pure-Go vector database: no external service, no
// telemetry, persistence to gob files under the configured directory.
// Similarity is always cosine, and chromem reports it natively, so query
// scores pass through without conversion.
type ChromemProvider struct {
	db     *chromem.DB
	config ChromemConfig
	logger *zap.Logger
}

// NewChromemProvider creates a ChromemProvider with the given configuration.
// The persistence directory is created if it does not exist; failures to set
// up the store are ErrConfiguration.
func NewChromemProvider(config ChromemConfig, logger *zap.Logger) (*ChromemProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	path, err := expandHome(config.resolvePath())
	if err != nil {
		return nil, fmt.Errorf("%w: expanding path: %v", ErrConfiguration, err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating directory %s: %v", ErrConfiguration, path, err)
	}

	db, err := chromem.NewPersistentDB(path, config.Compress)
	if err != nil {
		return nil, fmt.Errorf("%w: opening chromem DB at %s: %v", ErrConfiguration, path, err)
	}

	logger.Info("chromem provider initialized",
		zap.String("path", path),
		zap.Bool("compress", config.Compress),
	)

	return &ChromemProvider{
		db:     db,
		config: config,
		logger: logger,
	}, nil
}

// expandHome expands a leading ~ to the home directory.
func expandHome(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// vectorOnlyEmbedding is the embedding function attached to collections.
// Records carry caller-supplied vectors, so this layer never embeds; the
// function exists because chromem requires one (passing nil would install
// chromem's default OpenAI embedder).
func vectorOnlyEmbedding() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return nil, fmt.Errorf("%w: collection stores caller-supplied vectors only", ErrVectorOperation)
	}
}

// GetOrCreateCollection returns a handle for the named collection, creating
// it if absent. Collections use cosine similarity, chromem's native metric.
func (p *ChromemProvider) GetOrCreateCollection(ctx context.Context, name string) (c *ChromemCollection, err error) {
	_, span := chromemTracer.Start(ctx, "ChromemProvider.GetOrCreateCollection")
	defer span.End()
	start := time.Now()
	defer func() { observeOperation("chromem", "get_or_create_collection", start, err) }()

	span.SetAttributes(attribute.String("collection", name))

	if name == "" {
		return nil, fmt.Errorf("%w: collection name cannot be empty", ErrValidation)
	}

	collection, err := p.db.GetOrCreateCollection(name, nil, vectorOnlyEmbedding())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: getting/creating collection %s: %v", ErrProvider, name, err)
	}

	span.SetStatus(codes.Ok, "success")
	return &ChromemCollection{
		collection: collection,
		name:       name,
		logger:     p.logger,
	}, nil
}

// Collection returns a canonical handle for the named collection, creating
// it if absent.
func (p *ChromemProvider) Collection(ctx context.Context, name string) (Client, error) {
	return p.GetOrCreateCollection(ctx, name)
}

// CreateCollection creates a collection. chromem computes cosine similarity
// only, so any other metric is ErrValidation; the dimension is validated but
// not enforced by chromem, which takes the dimension of the first vector.
func (p *ChromemProvider) CreateCollection(ctx context.Context, name string, dimension int, metric Metric) (err error) {
	_, span := chromemTracer.Start(ctx, "ChromemProvider.CreateCollection")
	defer span.End()
	start := time.Now()
	defer func() { observeOperation("chromem", "create_collection", start, err) }()

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
	if metric != MetricCosine {
		return fmt.Errorf("%w: chromem supports only the %q metric, got %q", ErrValidation, MetricCosine, metric)
	}

	if _, err = p.db.GetOrCreateCollection(name, nil, vectorOnlyEmbedding()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: creating collection %s: %v", ErrProvider, name, err)
	}

	p.logger.Info("created chromem collection",
		zap.String("collection", name),
		zap.Int("dimension", dimension),
	)

	span.SetStatus(codes.Ok, "success")
	return nil
}

// DeleteCollection deletes a collection and all its vectors. Deleting a
// collection that does not exist silently succeeds.
func (p *ChromemProvider) DeleteCollection(ctx context.Context, name string) (err error) {
	_, span := chromemTracer.Start(ctx, "ChromemProvider.DeleteCollection")
	defer span.End()
	start := time.Now()
	defer func() { observeOperation("chromem", "delete_collection", start, err) }()

	span.SetAttributes(attribute.String("collection", name))

	if name == "" {
		return fmt.Errorf("%w: collection name cannot be empty", ErrValidation)
	}

	if err = p.db.DeleteCollection(name); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: deleting collection %s: %v", ErrProvider, name, err)
	}

	p.logger.Info("deleted chromem collection", zap.String("collection", name))

	span.SetStatus(codes.Ok, "success")
	return nil
}

// ListCollections returns the names of all collections, sorted.
func (p *ChromemProvider) ListCollections(ctx context.Context) ([]string, error) {
	_, span := chromemTracer.Start(ctx, "ChromemProvider.ListCollections")
	defer span.End()

	collections := p.db.ListCollections()
	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)

	span.SetAttributes(attribute.Int("collection_count", len(names)))
	span.SetStatus(codes.Ok, "success")
	return names, nil
}

// CollectionInfo returns metadata about a collection.
func (p *ChromemProvider) CollectionInfo(ctx context.Context, name string) (*CollectionInfo, error) {
	_, span := chromemTracer.Start(ctx, "ChromemProvider.CollectionInfo")
	defer span.End()

	span.SetAttributes(attribute.String("collection", name))

	if name == "" {
		return nil, fmt.Errorf("%w: collection name cannot be empty", ErrValidation)
	}

	collection := p.db.GetCollection(name, vectorOnlyEmbedding())
	if collection == nil {
		span.SetStatus(codes.Error, "collection not found")
		return nil, fmt.Errorf("%w: collection %s not found", ErrProvider, name)
	}

	info := &CollectionInfo{
		Name:       name,
		PointCount: collection.Count(),
	}

	span.SetAttributes(attribute.Int("point_count", info.PointCount))
	span.SetStatus(codes.Ok, "success")
	return info, nil
}

// Close closes the provider. chromem persists on every write, so there is
// nothing to flush.
func (p *ChromemProvider) Close() error {
	p.logger.Info("chromem provider closed")
	return nil
}

// ChromemCollection wraps a single chromem collection behind the Client
// protocol.
type ChromemCollection struct {
	collection *chromem.Collection
	name       string
	logger     *zap.Logger
}

// Upsert validates the batch and reshapes it into chromem documents carrying
// the caller-supplied embeddings, then issues one native add call.
func (c *ChromemCollection) Upsert(ctx context.Context, records []Record) (err error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemCollection.Upsert")
	defer span.End()
	start := time.Now()
	defer func() { observeOperation("chromem", "upsert", start, err) }()

	span.SetAttributes(
		attribute.String("collection", c.name),
		attribute.Int("record_count", len(records)),
	)

	if err = ValidateRecords(records); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	docs := make([]chromem.Document, len(records))
	for i, rec := range records {
		docs[i] = chromem.Document{
			ID:        rec.ID,
			Metadata:  metadataToString(rec.Metadata),
			Embedding: rec.Values,
		}
	}

	// Concurrency of 1: embeddings are precomputed, nothing to parallelize.
	if err = c.collection.AddDocuments(ctx, docs, 1); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: upserting %d vectors to %s: %v", ErrVectorOperation, len(docs), c.name, err)
	}

	c.logger.Debug("upserted vectors to chromem",
		zap.String("collection", c.name),
		zap.Int("count", len(docs)),
	)

	span.SetStatus(codes.Ok, "success")
	return nil
}

// Query issues one native embedding query and converts chromem's results
// into canonical results. chromem reports cosine similarity natively, so
// scores pass through unchanged. topK is capped at the collection size;
// chromem rejects requests for more results than stored documents, and
// returning fewer than topK matches is not an error.
func (c *ChromemCollection) Query(ctx context.Context, vector []float32, topK int) (results []Result, err error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemCollection.Query")
	defer span.End()
	start := time.Now()
	defer func() { observeOperation("chromem", "query", start, err) }()

	span.SetAttributes(
		attribute.String("collection", c.name),
		attribute.Int("top_k", topK),
	)

	if err = ValidateQuery(vector, topK); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	count := c.collection.Count()
	if count == 0 {
		span.SetStatus(codes.Ok, "empty collection")
		return []Result{}, nil
	}
	if topK > count {
		topK = count
	}

	matches, err := c.collection.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: querying %s: %v", ErrVectorOperation, c.name, err)
	}

	results = make([]Result, len(matches))
	for i, match := range matches {
		results[i] = Result{
			ID:       match.ID,
			Score:    match.Similarity,
			Metadata: metadataFromString(match.Metadata),
		}
	}

	span.SetAttributes(attribute.Int("results_count", len(results)))
	span.SetStatus(codes.Ok, "success")
	return results, nil
}

// metadataToString converts canonical metadata to chromem's string map.
func metadataToString(metadata map[string]interface{}) map[string]string {
	if metadata == nil {
		return nil
	}

	result := make(map[string]string, len(metadata))
	for k, v := range metadata {
		switch val := v.(type) {
		case string:
			result[k] = val
		case int:
			result[k] = fmt.Sprintf("%d", val)
		case int64:
			result[k] = fmt.Sprintf("%d", val)
		case float64:
			result[k] = fmt.Sprintf("%f", val)
		case bool:
			result[k] = fmt.Sprintf("%t", val)
		default:
			result[k] = fmt.Sprintf("%v", val)
		}
	}
	return result
}

// metadataFromString converts chromem's string map back to canonical
// metadata.
func metadataFromString(metadata map[string]string) map[string]interface{} {
	if metadata == nil {
		return nil
	}

	result := make(map[string]interface{}, len(metadata))
	for k, v := range metadata {
		result[k] = v
	}
	return result
}

// Ensure the chromem types implement the canonical interfaces.
var (
	_ Provider = (*ChromemProvider)(nil)
	_ Client   = (*ChromemCollection)(nil)
)
