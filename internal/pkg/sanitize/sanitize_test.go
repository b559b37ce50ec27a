package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText_StripsScriptBlocks(t *testing.T) {
	input := "Hello <script>alert('x')</script>world"
	require.Equal(t, "Hello world", Text(input))
}

func TestText_StripsScriptBlocksCaseInsensitive(t *testing.T) {
	input := "a<SCRIPT type=\"text/javascript\">\nsteal()\n</SCRIPT>b"
	require.Equal(t, "ab", Text(input))
}

func TestText_StripsAllTags(t *testing.T) {
	input := "<p>In loving <b>memory</b></p>"
	require.Equal(t, "In loving memory", Text(input))
}

func TestText_TrimsWhitespace(t *testing.T) {
	require.Equal(t, "plain text", Text("  plain text  "))
}

func TestText_PlainTextUntouched(t *testing.T) {
	require.Equal(t, "Rex was a good dog", Text("Rex was a good dog"))
}
