package oracle

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when no valid JSON object can be recovered from a
// proposal.
var ErrNoJSON = errors.New("oracle: no valid JSON object in proposal")

var (
	fenceRe    = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	backtickRe = regexp.MustCompile("(?s)`(\\{.*?\\})`")
	braceRe    = regexp.MustCompile(`(?s)(\{\s*"[^"]+"\s*:.*\})`)
)

// ExtractJSON recovers a single JSON object from oracle output. Strict JSON
// is accepted as-is; otherwise the text is scanned for a fenced block, a
// backtick quoted block, then a bare brace block. Each candidate must parse
// as valid JSON before it is accepted. This is the only place in the
// pipeline that deals with loosely formatted proposals.
func ExtractJSON(text string) ([]byte, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrNoJSON
	}
	if json.Valid([]byte(trimmed)) && strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed), nil
	}
	for _, re := range []*regexp.Regexp{fenceRe, backtickRe, braceRe} {
		for _, m := range re.FindAllStringSubmatch(trimmed, -1) {
			candidate := strings.TrimSpace(m[1])
			if json.Valid([]byte(candidate)) {
				return []byte(candidate), nil
			}
		}
	}
	return nil, ErrNoJSON
}
