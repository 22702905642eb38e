package qdrant

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/quarrylabs/lodestone/vectorindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{Dimension: 384}
	cfg.ApplyDefaults()
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 6334, cfg.Port)
	assert.Equal(t, "documents", cfg.Collection)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{Host: "localhost", Port: 6334}
	assert.Error(t, cfg.Validate(), "missing dimension must be rejected")

	cfg = &Config{Host: "localhost", Port: 99999, Dimension: 384}
	assert.Error(t, cfg.Validate())
}

func TestPointUUIDDeterministic(t *testing.T) {
	a := PointUUID("doc-1-0")
	b := PointUUID("doc-1-0")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, PointUUID("doc-1-1"))
}

func TestConvertToPointKeepsRecordID(t *testing.T) {
	record := vectorindex.Record{
		ID:     "doc-1-3",
		Vector: []float32{0.1, 0.2},
		Payload: map[string]any{
			"documentId": "doc-1",
			"chunkIndex": 3,
			"title":      "A Document",
		},
	}
	point := convertToPoint(record)

	assert.Equal(t, PointUUID("doc-1-3"), point.Id.GetUuid())
	assert.Equal(t, "doc-1-3", point.Payload[recordIDKey].GetStringValue())
	assert.Equal(t, "doc-1", point.Payload["documentId"].GetStringValue())
	assert.Equal(t, int64(3), point.Payload["chunkIndex"].GetIntegerValue())
}

func TestConvertFromScoredPoint(t *testing.T) {
	scored := &qdrant.ScoredPoint{
		Score: 0.87,
		Payload: map[string]*qdrant.Value{
			recordIDKey:  {Kind: &qdrant.Value_StringValue{StringValue: "doc-1-0"}},
			"documentId": {Kind: &qdrant.Value_StringValue{StringValue: "doc-1"}},
			"chunkIndex": {Kind: &qdrant.Value_IntegerValue{IntegerValue: 0}},
			"flag":       {Kind: &qdrant.Value_BoolValue{BoolValue: true}},
		},
	}
	match := convertFromScoredPoint(scored)

	assert.Equal(t, "doc-1-0", match.Record.ID)
	assert.InDelta(t, 0.87, match.Score, 1e-6)
	assert.Equal(t, "doc-1", match.Record.Payload["documentId"])
	assert.Equal(t, int64(0), match.Record.Payload["chunkIndex"])
	assert.Equal(t, true, match.Record.Payload["flag"])
	assert.NotContains(t, match.Record.Payload, recordIDKey)
}
