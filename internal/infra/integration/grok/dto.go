package grok

import "encoding/json"

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

// ChatResponse is the provider response as received. Raw keeps the exact body so
// a failed parse can be stored alongside the error.
type ChatResponse struct {
	ID      string          `json:"id,omitempty"`
	Model   string          `json:"model,omitempty"`
	Choices []Choice        `json:"choices"`
	Raw     json.RawMessage `json:"-"`
}

// ParseFailure is what gets stored and returned when the model output is not a
// JSON object.
type ParseFailure struct {
	Error string          `json:"error"`
	Raw   json.RawMessage `json:"raw"`
}

// Structured is either the decoded JSON object (Data) or a ParseFailure.
type Structured struct {
	Data    map[string]any
	Failure *ParseFailure
}

func (s Structured) OK() bool {
	return s.Failure == nil
}

func (s Structured) MarshalJSON() ([]byte, error) {
	if s.Failure != nil {
		return json.Marshal(s.Failure)
	}
	if s.Data == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.Data)
}

func (s Structured) String(key string) string {
	v, _ := s.Data[key].(string)
	return v
}

// Strings returns the string elements of a JSON array field, skipping anything
// that is not a string.
func (s Structured) Strings(key string) []string {
	items, _ := s.Data[key].([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if str, ok := it.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
