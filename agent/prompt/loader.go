package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/shopping.txt
var shoppingRaw string

// Shopping returns the trimmed system prompt for the shopping assistant.
// The embed is compile-time, so this is safe to call concurrently.
func Shopping() string {
	return strings.TrimSpace(shoppingRaw)
}
