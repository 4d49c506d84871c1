package errs

import (
	"path/filepath"
	"strings"
)

// sqlKeywords mark the start of raw statement text that storage drivers may
// echo into error messages. Everything from the first keyword on is dropped.
var sqlKeywords = []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE ", "ALTER "}

// Sanitize prepares an error message for callers outside the process:
// absolute filesystem paths are reduced to basenames and raw query text is
// stripped.
func Sanitize(msg string) string {
	msg = stripQueryText(msg)

	fields := strings.Fields(msg)
	changed := false
	for i, f := range fields {
		trimmed := strings.Trim(f, `"'():,`)
		if strings.HasPrefix(trimmed, "/") && strings.Count(trimmed, "/") > 1 {
			fields[i] = strings.Replace(f, trimmed, filepath.Base(trimmed), 1)
			changed = true
		}
	}
	if changed {
		return strings.Join(fields, " ")
	}
	return msg
}

func stripQueryText(msg string) string {
	cut := -1
	for _, kw := range sqlKeywords {
		if idx := strings.Index(msg, kw); idx >= 0 && (cut == -1 || idx < cut) {
			cut = idx
		}
	}
	if cut == -1 {
		return msg
	}
	return strings.TrimRight(msg[:cut], " :") + " [query omitted]"
}
