package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// #region extract

// historyWindow is how many recent turns accompany an extraction call.
const historyWindow = 6

// ExtractStructured asks the model to pull structured data out of a user
// utterance according to the given instructions. Returns nil (not an
// error) when the output contains no parseable JSON object; a transport
// error is returned as-is so the caller can decide how fatal it is.
func ExtractStructured(ctx context.Context, c Client, userText, instructions string, history []Message) (map[string]map[string]any, error) {
	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}
	messages := make([]Message, 0, len(recent)+1)
	messages = append(messages, recent...)
	messages = append(messages, Message{Role: "user", Content: userText})

	out, err := c.Generate(ctx, messages, instructions, Options{
		Temperature: 0.1,
		MaxTokens:   300,
	})
	if err != nil {
		return nil, err
	}

	raw, ok := scrapeJSON(out)
	if !ok {
		return nil, nil
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, nil
	}

	// Keep only object-valued top-level categories; the merge drops
	// unrecognized ones anyway.
	result := make(map[string]map[string]any, len(decoded))
	for category, v := range decoded {
		if fields, ok := v.(map[string]any); ok {
			result[category] = fields
		}
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result, nil
}

// #endregion extract

// #region json-scrape

// scrapeJSON finds the first balanced top-level JSON object in model
// output, tolerating prose or code fences around it. String contents are
// respected so braces inside values do not break the balance count.
func scrapeJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// #endregion json-scrape
