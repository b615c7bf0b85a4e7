package handlers

import (
	"strings"

	"case-callback/internal/callback"
)

// mapAt walks a dotted path of nested objects.
func mapAt(data callback.CaseData, path string) callback.CaseData {
	cur := data
	for _, part := range strings.Split(path, ".") {
		if cur == nil {
			return nil
		}
		cur = cur.Map(part)
	}
	return cur
}

// stringAt returns the string at a dotted path, or "".
func stringAt(data callback.CaseData, path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return data.String(path)
	}
	parent := mapAt(data, path[:idx])
	if parent == nil {
		return ""
	}
	return parent.String(path[idx+1:])
}
