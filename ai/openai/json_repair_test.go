package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSONMissingOpeningQuote(t *testing.T) {
	damaged := `{"nodes": [{"id": "Go", type": "Technology", summary": "A language."}], "edges": []}`
	repaired := repairJSON(damaged)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(repaired), &out))
}

func TestRepairJSONLeavesValidInput(t *testing.T) {
	valid := `{"nodes": [{"id": "Go", "type": "Technology", "summary": "A language."}], "edges": []}`
	assert.Equal(t, valid, repairJSON(valid))
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"nodes":[]}`, stripCodeFences("```json\n{\"nodes\":[]}\n```"))
	assert.Equal(t, `{"nodes":[]}`, stripCodeFences("```\n{\"nodes\":[]}\n```"))
	assert.Equal(t, `{"nodes":[]}`, stripCodeFences(`{"nodes":[]}`))
}
