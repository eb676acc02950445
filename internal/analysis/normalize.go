package analysis

import (
	"bytes"
	"encoding/json"

	"github.com/vytor/lingoflash/internal/models"
)

// matcher picks the object carrying aiFeedback/wordAnalysis out of a decoded body.
type matcher struct {
	name  string
	match func(body any) (map[string]any, bool)
}

// Order matters: the first matching shape wins.
var matchers = []matcher{
	{name: "output", match: matchOutput},
	{name: "array_response_output", match: matchArrayResponseOutput},
	{name: "direct", match: matchDirect},
}

// Normalize maps a webhook body onto the canonical analysis shape. It reports
// false when no known shape matches; it never fails.
func Normalize(body []byte) (*models.AnalysisResult, bool) {
	res, _, ok := normalize(body)
	return res, ok
}

func normalize(body []byte) (*models.AnalysisResult, string, bool) {
	decoded, ok := decode(body)
	if !ok {
		return nil, "", false
	}
	for _, m := range matchers {
		if obj, ok := m.match(decoded); ok {
			return toResult(obj), m.name, true
		}
	}
	return nil, "", false
}

func decode(body []byte) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// {"output": {...}}. Workflows that return the model text verbatim send
// output as a JSON-encoded string, which is unwrapped once.
func matchOutput(body any) (map[string]any, bool) {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, false
	}
	return asObject(obj["output"])
}

// [{"response": {"output": {...}}}, ...]
func matchArrayResponseOutput(body any) (map[string]any, bool) {
	arr, ok := body.([]any)
	if !ok || len(arr) == 0 {
		return nil, false
	}
	first, ok := arr[0].(map[string]any)
	if !ok {
		return nil, false
	}
	resp, ok := first["response"].(map[string]any)
	if !ok {
		return nil, false
	}
	return asObject(resp["output"])
}

// {"aiFeedback": "...", "wordAnalysis": [...]}
func matchDirect(body any) (map[string]any, bool) {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, false
	}
	if s, ok := obj["aiFeedback"].(string); ok && s != "" {
		return obj, true
	}
	if arr, ok := obj["wordAnalysis"].([]any); ok && len(arr) > 0 {
		return obj, true
	}
	return nil, false
}

func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case string:
		inner, ok := decode([]byte(t))
		if !ok {
			return nil, false
		}
		obj, ok := inner.(map[string]any)
		return obj, ok
	default:
		return nil, false
	}
}

func toResult(obj map[string]any) *models.AnalysisResult {
	res := &models.AnalysisResult{WordAnalysis: []models.WordAnalysis{}}
	if s, ok := obj["aiFeedback"].(string); ok {
		res.AIFeedback = s
	}

	entries, _ := obj["wordAnalysis"].([]any)
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		var wa models.WordAnalysis
		if s, ok := m["wordKey"].(string); ok {
			wa.WordKey = s
		}
		// Empty mnemonics count as not supplied.
		if s, ok := m["aiMnemonic"].(string); ok && s != "" {
			wa.AIMnemonic = &s
		}
		// Any JSON number counts as supplied, zero included.
		if n, ok := m["difficultyLevel"].(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				wa.DifficultyLevel = &f
			}
		}
		res.WordAnalysis = append(res.WordAnalysis, wa)
	}
	return res
}
