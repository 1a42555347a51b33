package inference

import (
	"github.com/tidwall/gjson"
)

// Extractor pulls an answer out of a parsed upstream reply. ok is false when
// the shape it knows about is absent or empty.
type Extractor struct {
	Name string
	Path string
}

func (e Extractor) extract(doc gjson.Result) (string, bool) {
	v := doc.Get(e.Path)
	if v.Type != gjson.String || v.Str == "" {
		return "", false
	}
	return v.Str, true
}

// DefaultExtractors is the lookup order for answers: OpenAI chat, OpenAI
// completions, then flat backends such as Ollama's /api/generate.
var DefaultExtractors = []Extractor{
	{Name: "chat", Path: "choices.0.message.content"},
	{Name: "completion", Path: "choices.0.text"},
	{Name: "flat", Path: "response"},
}

// Normalize extracts the answer text from raw using DefaultExtractors.
func Normalize(raw RawResponse) (string, error) {
	return NormalizeWith(raw, DefaultExtractors)
}

// NormalizeWith tries extractors in order; the first non-empty match wins.
func NormalizeWith(raw RawResponse, extractors []Extractor) (string, error) {
	if !gjson.ValidBytes(raw.Body) {
		return "", &Failure{Kind: KindSchema, Detail: "invalid JSON: " + Truncate(string(raw.Body), MaxSnippet)}
	}
	doc := gjson.ParseBytes(raw.Body)
	for _, e := range extractors {
		if text, ok := e.extract(doc); ok {
			return text, nil
		}
	}
	return "", &Failure{Kind: KindSchema, Detail: Truncate(doc.Raw, MaxSnippet)}
}
