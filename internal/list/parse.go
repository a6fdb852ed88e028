package list

import "strings"

// ParseBulk splits pasted or typed multi-item text into candidate names.
// The contract: split on any newline or comma, trim each token, drop
// empties. Dedup is not done here; AddMany owns that.
func ParseBulk(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ','
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// IsBulk reports whether typed text should take the multi-item path.
func IsBulk(text string) bool {
	return strings.ContainsAny(text, ",\n")
}

func trimmed(s string) string { return strings.TrimSpace(s) }
