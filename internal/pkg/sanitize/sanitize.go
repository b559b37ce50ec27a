package sanitize

import (
	"regexp"
	"strings"
)

var (
	scriptRegex = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	tagRegex    = regexp.MustCompile(`<[^>]+>`)
)

// Text strips script blocks first, then any remaining markup. Memorial
// text is stored and rendered as plain text only.
func Text(s string) string {
	s = scriptRegex.ReplaceAllString(s, "")
	s = tagRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
