package review

import (
	"encoding/json"
	"strings"
)

// Reasoning-trace delimiters emitted by thinking-mode models. The whole
// block is discarded before JSON extraction.
const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// ExtractJSON recovers a single JSON object from free-form model text.
//
// Model output is not guaranteed to be pure JSON: providers wrap it in
// markdown code fences, prepend reasoning traces, or append commentary.
// Every agent applies the same recovery before trusting a field:
//
//  1. Drop any <think>...</think> reasoning block
//  2. Drop markdown code-fence markers
//  3. Take the span from the first '{' to the last '}'
//
// Returns *ParseError when no object span exists.
func ExtractJSON(text string) (string, error) {
	cleaned := stripReasoning(text)
	cleaned = stripFences(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || start >= end {
		return "", &ParseError{Message: "no JSON object found in model response"}
	}

	return cleaned[start : end+1], nil
}

// DecodeJSON extracts the JSON object span from text and unmarshals it
// into T. A decode failure propagates as *ParseError.
func DecodeJSON[T any](text string) (T, error) {
	var out T

	span, err := ExtractJSON(text)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return out, &ParseError{Message: "malformed JSON object in model response", Cause: err}
	}
	return out, nil
}

// stripReasoning removes a <think>...</think> block. An unterminated
// block is left in place; fence and brace recovery still apply.
func stripReasoning(text string) string {
	open := strings.Index(text, thinkOpen)
	if open == -1 {
		return text
	}
	close := strings.Index(text[open:], thinkClose)
	if close == -1 {
		return text
	}
	return text[:open] + text[open+close+len(thinkClose):]
}

// stripFences removes markdown code-fence marker lines (``` or ```json)
// while keeping the fenced content.
func stripFences(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
