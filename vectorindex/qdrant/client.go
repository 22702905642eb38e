// Copyright 2025 Quarry Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/quarrylabs/lodestone/vectorindex"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// recordIDKey holds the original record id in the point payload. Qdrant
// accepts only UUID or integer point ids, so record ids are mapped through
// a deterministic UUIDv5 and the original kept alongside the payload.
const recordIDKey = "recordId"

// Config configures the Qdrant index client.
type Config struct {
	// Host is the Qdrant server hostname or IP address.
	// Default: "localhost"
	Host string

	// Port is the Qdrant gRPC port (NOT the HTTP REST port).
	// Default: 6334
	Port int

	// UseTLS enables TLS encryption for the gRPC connection.
	// Default: false (for local development)
	UseTLS bool

	// APIKey is the optional API key for authentication.
	APIKey string

	// Collection is the collection holding document chunk embeddings.
	// Default: "documents"
	Collection string

	// Dimension is the embedding dimension the collection is created with.
	// Must match the embedding service's output dimension.
	Dimension uint64

	// MaxMessageSize is the maximum gRPC message size in bytes.
	// Default: 50MB
	MaxMessageSize int

	// RequestTimeout is the timeout applied to individual requests.
	// Default: 30 seconds
	RequestTimeout time.Duration
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.Collection == "" {
		c.Collection = "documents"
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = 50 * 1024 * 1024
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
}

// Validate validates the client configuration.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}
	if c.Dimension == 0 {
		return fmt.Errorf("dimension is required")
	}
	return nil
}

// Index implements vectorindex.Index over Qdrant's gRPC API.
type Index struct {
	client *qdrant.Client
	config *Config
	logger *slog.Logger
}

var _ vectorindex.Index = (*Index)(nil)

// NewIndex connects to Qdrant and ensures the configured collection exists
// with a cosine distance metric.
func NewIndex(ctx context.Context, config *Config) (*Index, error) {
	if config == nil {
		config = &Config{}
	}
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	qdrantConfig := &qdrant.Config{
		Host:   config.Host,
		Port:   config.Port,
		UseTLS: config.UseTLS,
		APIKey: config.APIKey,
		GrpcOptions: []grpc.DialOption{
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(config.MaxMessageSize),
				grpc.MaxCallSendMsgSize(config.MaxMessageSize),
			),
		},
	}
	if !config.UseTLS {
		qdrantConfig.GrpcOptions = append(qdrantConfig.GrpcOptions,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
	}

	client, err := qdrant.NewClient(qdrantConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vectorindex.ErrUnavailable, err)
	}

	idx := &Index{
		client: client,
		config: config,
		logger: slog.Default().With("component", "qdrant-index"),
	}

	if err := idx.ensureCollection(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	idx.logger.Info("qdrant connection established",
		"host", config.Host, "port", config.Port, "collection", config.Collection)
	return idx, nil
}

// ensureCollection creates the collection if it does not exist yet.
func (i *Index) ensureCollection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, i.config.RequestTimeout)
	defer cancel()

	_, err := i.client.GetCollectionInfo(ctx, i.config.Collection)
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); !ok || st.Code() != codes.NotFound {
		return fmt.Errorf("%w: %w", vectorindex.ErrUnavailable, err)
	}

	err = i.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: i.config.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     i.config.Dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: creating collection: %w", vectorindex.ErrUnavailable, err)
	}
	return nil
}

// Upsert replaces any existing points sharing the records' ids.
// Wait is set so the write is visible to queries when the call returns.
func (i *Index) Upsert(ctx context.Context, records []vectorindex.Record) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, i.config.RequestTimeout)
	defer cancel()

	points := make([]*qdrant.PointStruct, len(records))
	for n, record := range records {
		points[n] = convertToPoint(record)
	}

	_, err := i.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: i.config.Collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		i.logger.Error("upsert failed", "points", len(points), "err", err)
		return fmt.Errorf("%w: %w", vectorindex.ErrUnavailable, err)
	}
	return nil
}

// Query returns the topK nearest records ranked by cosine similarity.
func (i *Index) Query(ctx context.Context, vector []float32, topK int) ([]vectorindex.Match, error) {
	if topK <= 0 {
		return nil, vectorindex.ErrInvalidTopK
	}

	ctx, cancel := context.WithTimeout(ctx, i.config.RequestTimeout)
	defer cancel()

	results, err := i.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: i.config.Collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		i.logger.Error("query failed", "err", err)
		return nil, fmt.Errorf("%w: %w", vectorindex.ErrUnavailable, err)
	}

	matches := make([]vectorindex.Match, len(results))
	for n, result := range results {
		matches[n] = convertFromScoredPoint(result)
	}
	return matches, nil
}

// Close shuts down the gRPC connection.
func (i *Index) Close() error {
	return i.client.Close()
}

// PointUUID maps a record id to the deterministic UUIDv5 used as the Qdrant
// point id. The same record id always maps to the same point, which is what
// keeps upserts idempotent.
func PointUUID(recordID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(recordID)).String()
}

func convertToPoint(record vectorindex.Record) *qdrant.PointStruct {
	payload := make(map[string]*qdrant.Value, len(record.Payload)+1)
	for k, v := range record.Payload {
		payload[k] = convertToValue(v)
	}
	payload[recordIDKey] = convertToValue(record.ID)

	return &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(PointUUID(record.ID)),
		Vectors: qdrant.NewVectors(record.Vector...),
		Payload: payload,
	}
}

func convertToValue(v any) *qdrant.Value {
	switch val := v.(type) {
	case string:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: val}}
	case int:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(val)}}
	case int64:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: val}}
	case float64:
		return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: val}}
	case bool:
		return &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: val}}
	default:
		// Fallback to string representation
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: fmt.Sprintf("%v", val)}}
	}
}

func convertFromScoredPoint(p *qdrant.ScoredPoint) vectorindex.Match {
	payload := extractPayload(p.Payload)
	id, _ := payload[recordIDKey].(string)
	delete(payload, recordIDKey)

	return vectorindex.Match{
		Record: vectorindex.Record{
			ID:      id,
			Payload: payload,
		},
		Score: p.Score,
	}
}

func extractPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		result[k] = extractValue(v)
	}
	return result
}

func extractValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	default:
		return nil
	}
}
