package utils

import (
	"fmt"
	"strings"
)

// TruncateForLog collapses whitespace in a response body so it fits on one log
// line and cuts it to limit runes. A cut body ends with the number of runes left out.
func TruncateForLog(body string, limit int) string {
	if limit <= 0 {
		return ""
	}

	runes := []rune(strings.Join(strings.Fields(body), " "))
	if len(runes) <= limit {
		return string(runes)
	}

	return fmt.Sprintf("%s... (%d more)", string(runes[:limit]), len(runes)-limit)
}
