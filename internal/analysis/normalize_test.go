package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/analysis"
	"github.com/vytor/lingoflash/internal/models"
)

func TestNormalize_OutputObject(t *testing.T) {
	res, ok := analysis.Normalize([]byte(`{"output":{"aiFeedback":"Good job","wordAnalysis":[]}}`))
	require.True(t, ok)
	assert.Equal(t, &models.AnalysisResult{AIFeedback: "Good job", WordAnalysis: []models.WordAnalysis{}}, res)
}

func TestNormalize_ArrayResponseOutputMatchesDirectObject(t *testing.T) {
	inner := `{"aiFeedback":"Practice colors","wordAnalysis":[{"wordKey":"red","aiMnemonic":"red like a rose","difficultyLevel":0.6}]}`

	fromArray, ok := analysis.Normalize([]byte(`[{"response":{"output":` + inner + `}}]`))
	require.True(t, ok)
	fromOutput, ok := analysis.Normalize([]byte(`{"output":` + inner + `}`))
	require.True(t, ok)
	direct, ok := analysis.Normalize([]byte(inner))
	require.True(t, ok)

	assert.Equal(t, fromOutput, fromArray)
	assert.Equal(t, direct, fromArray)
	require.Len(t, fromArray.WordAnalysis, 1)
	assert.Equal(t, "red", fromArray.WordAnalysis[0].WordKey)
	assert.Equal(t, "red like a rose", *fromArray.WordAnalysis[0].AIMnemonic)
	assert.Equal(t, 0.6, *fromArray.WordAnalysis[0].DifficultyLevel)
}

func TestNormalize_Unrecognized(t *testing.T) {
	bodies := map[string]string{
		"random field":         `{"randomField":1}`,
		"empty object":         `{}`,
		"null output":          `{"output":null}`,
		"empty array":          `[]`,
		"array without output": `[{"response":{}}]`,
		"array of scalars":     `[1,2]`,
		"empty feedback only":  `{"aiFeedback":"","wordAnalysis":[]}`,
		"scalar":               `"hello"`,
		"not json":             `<html>oops</html>`,
		"output non-json text": `{"output":"plain text"}`,
		"output is a number":   `{"output":7}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			res, ok := analysis.Normalize([]byte(body))
			assert.False(t, ok)
			assert.Nil(t, res)
		})
	}
}

func TestNormalize_OutputTakesPrecedenceOverDirectFields(t *testing.T) {
	res, ok := analysis.Normalize([]byte(`{"aiFeedback":"outer","output":{"aiFeedback":"inner"}}`))
	require.True(t, ok)
	assert.Equal(t, "inner", res.AIFeedback)
}

func TestNormalize_NonObjectOutputFallsThroughToDirect(t *testing.T) {
	res, ok := analysis.Normalize([]byte(`{"output":"n/a","aiFeedback":"direct wins"}`))
	require.True(t, ok)
	assert.Equal(t, "direct wins", res.AIFeedback)
}

func TestNormalize_StringEncodedOutput(t *testing.T) {
	res, ok := analysis.Normalize([]byte(`{"output":"{\"aiFeedback\":\"Nice\",\"wordAnalysis\":[{\"wordKey\":\"cat\"}]}"}`))
	require.True(t, ok)
	assert.Equal(t, "Nice", res.AIFeedback)
	require.Len(t, res.WordAnalysis, 1)
	assert.Equal(t, "cat", res.WordAnalysis[0].WordKey)
}

func TestNormalize_DirectWithOnlyWordAnalysis(t *testing.T) {
	res, ok := analysis.Normalize([]byte(`{"wordAnalysis":[{"wordKey":"dog"}]}`))
	require.True(t, ok)
	assert.Equal(t, "", res.AIFeedback)
	assert.Len(t, res.WordAnalysis, 1)
}

func TestNormalize_EntryFieldHandling(t *testing.T) {
	res, ok := analysis.Normalize([]byte(`{"output":{"aiFeedback":"x","wordAnalysis":[
		{"wordKey":"zero","difficultyLevel":0},
		{"wordKey":"blank","aiMnemonic":""},
		{"wordKey":"typed","aiMnemonic":5,"difficultyLevel":"high"},
		"not an object",
		{"aiMnemonic":"no key"}
	]}}`))
	require.True(t, ok)
	require.Len(t, res.WordAnalysis, 4)

	zero := res.WordAnalysis[0]
	require.NotNil(t, zero.DifficultyLevel)
	assert.Equal(t, 0.0, *zero.DifficultyLevel)

	assert.Nil(t, res.WordAnalysis[1].AIMnemonic)
	assert.Nil(t, res.WordAnalysis[2].AIMnemonic)
	assert.Nil(t, res.WordAnalysis[2].DifficultyLevel)
	assert.Equal(t, "", res.WordAnalysis[3].WordKey)
}

func TestNormalize_MissingWordAnalysisIsEmpty(t *testing.T) {
	res, ok := analysis.Normalize([]byte(`{"output":{"aiFeedback":"only feedback"}}`))
	require.True(t, ok)
	assert.NotNil(t, res.WordAnalysis)
	assert.Empty(t, res.WordAnalysis)
}
