package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHNToText_ParagraphsAndEntities(t *testing.T) {
	raw := "First paragraph.<p>Second with &quot;quotes&quot; &amp; stuff.</p>"
	out := HNToText(raw, 0)
	require.Equal(t, "First paragraph.\n\nSecond with \"quotes\" & stuff.", out)
}

func TestHNToText_ItalicAndCode(t *testing.T) {
	raw := "some <i>emphasis</i> and <code>fmt.Println</code>"
	out := HNToText(raw, 0)
	require.Equal(t, "some *emphasis* and `fmt.Println`", out)
}

func TestHNToText_LinkKeepsHref(t *testing.T) {
	raw := `see <a href="https://example.com/x">the docs</a>`
	out := HNToText(raw, 0)
	require.Contains(t, out, "the docs")
	require.Contains(t, out, "[https://example.com/x]")
}

func TestHNToText_PreBlockIndented(t *testing.T) {
	raw := "<pre><code>func main() {\n\tgo run()\n}</code></pre>"
	out := HNToText(raw, 0)
	require.Contains(t, out, "    func main() {")
}

func TestHNToText_BreakTag(t *testing.T) {
	out := HNToText("line one<br>line two", 0)
	require.Equal(t, "line one\nline two", out)
}

func TestHNToText_WrapsAtWidth(t *testing.T) {
	raw := strings.Repeat("word ", 20)
	out := HNToText(raw, 25)
	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, len(line), 25)
	}
}

func TestHNToText_Empty(t *testing.T) {
	require.Equal(t, "", HNToText("", 80))
}
