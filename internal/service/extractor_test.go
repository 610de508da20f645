package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject_SurroundingProse(t *testing.T) {
	reply := `Sure! Here are the questions: {"questions": [{"question": "What is 2+2?"}]}  Let me know if you need more.`

	extracted, err := ExtractJSONObject(reply)
	require.NoError(t, err)
	assert.Equal(t, `{"questions": [{"question": "What is 2+2?"}]}`, extracted)
	assert.True(t, json.Valid([]byte(extracted)))
}

func TestExtractJSONObject_CodeFences(t *testing.T) {
	reply := "Here you go:\n```json\n{\"questions\": []}\n```\nEnjoy!"

	extracted, err := ExtractJSONObject(reply)
	require.NoError(t, err)
	assert.JSONEq(t, `{"questions": []}`, extracted)
}

func TestExtractJSONObject_NestedBracesAndStrings(t *testing.T) {
	// 字符串里的花括号和转义引号不能影响配平
	reply := `prefix {"a": {"b": "closing } brace", "c": "quote \" and { brace"}, "d": 1} suffix {"ignored": true}`

	extracted, err := ExtractJSONObject(reply)
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": "closing } brace", "c": "quote \" and { brace"}, "d": 1}`, extracted)
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	_, err := ExtractJSONObject("There is no JSON here, sorry.")

	var exErr *ExtractionError
	require.ErrorAs(t, err, &exErr)
}

func TestExtractJSONObject_UnbalancedBraces(t *testing.T) {
	_, err := ExtractJSONObject(`{"questions": [{"question": "truncated...`)

	var exErr *ExtractionError
	require.ErrorAs(t, err, &exErr)
}

func TestExtractJSONObject_ObjectAtStart(t *testing.T) {
	extracted, err := ExtractJSONObject(`{"ok": true}`)
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, extracted)
}
