package llmjson

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	require.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, StripFences("```\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, StripFences("  {\"a\":1}  "))
	require.Equal(t, `{"a":1}`, StripFences("```json{\"a\":1}```"))
}

func TestExtractObject(t *testing.T) {
	require.Equal(t, `{"a":1}`, ExtractObject(`Here you go: {"a":1} hope it helps`))
	require.Equal(t, `{"a":[1,2`, ExtractObject(`prefix {"a":[1,2`))
	require.Equal(t, "no json", ExtractObject("no json"))
}

func TestRepairBracketsRestoresMissingClosers(t *testing.T) {
	original := `{"reply":"ok {not a brace}","meta":{"inner":{"deep":true}},"bullets":["a"]}`
	var want any
	require.NoError(t, json.Unmarshal([]byte(original), &want))

	for k := 0; k <= 3; k++ {
		source := nestedDocument()
		var expected any
		require.NoError(t, json.Unmarshal([]byte(source), &expected))

		truncated := strings.TrimSuffix(source, strings.Repeat("}", k))
		repaired := RepairBrackets(truncated)

		var got any
		require.NoError(t, json.Unmarshal([]byte(repaired), &got), "k=%d repaired=%s", k, repaired)
		require.Equal(t, expected, got)
	}

	repaired := RepairBrackets(original)
	var got any
	require.NoError(t, json.Unmarshal([]byte(repaired), &got))
	require.Equal(t, want, got)
}

func nestedDocument() string {
	return `{"reply":"brace } inside","a":{"b":{"c":{"d":1}}}}`
}

func TestRepairBracketsClosesArraysAndStrings(t *testing.T) {
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(RepairBrackets(`{"bullets":["one","tw`)), &got))
	require.Equal(t, []any{"one", "tw"}, got["bullets"])

	require.NoError(t, json.Unmarshal([]byte(RepairBrackets(`{"reply":"hi",`)), &got))
	require.Equal(t, "hi", got["reply"])
}

func TestStripTrailingCommas(t *testing.T) {
	require.Equal(t, `{"a":[1,2],"b":3}`, StripTrailingCommas(`{"a":[1,2,],"b":3,}`))
}

func TestSanitize(t *testing.T) {
	raw := "Sure!\n```json\n{\"reply\":\"Sunny\",\"bullets\":[\"Hat\",],\"actions\":[{\"label\":\"Go\",\"detail\":\"Walk\"}\n"
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(Sanitize(raw)), &got))
	require.Equal(t, "Sunny", got["reply"])
	require.Equal(t, []any{"Hat"}, got["bullets"])
}
