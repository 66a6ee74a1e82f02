package renderer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToHTML(t *testing.T) {
	out, err := MarkdownToHTML("# Profil\n\nFakultas **Teknik**\n\n<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>Teknik</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestOrgToHTML(t *testing.T) {
	out, err := OrgToHTML("* Visi\nMenjadi fakultas *unggul*.\n#+begin_src go\nfmt.Println(1)\n#+end_src\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Visi")
	assert.Regexp(t, `<(b|strong)>unggul</(b|strong)>`, out)
	assert.Contains(t, out, `class="`)
}

func TestSanitize(t *testing.T) {
	out := Sanitize(`<p onclick="x()">Halo <a href="javascript:alert(1)">link</a></p><img src="/a.png" alt="a">`)
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, `<img src="/a.png" alt="a">`)
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", StripTags("<p>Tom &amp; <b>Jerry</b></p>"))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "pendek", Excerpt("<p>pendek</p>", 150))

	long := "<p>" + strings.Repeat("é", 200) + "</p>"
	got := Excerpt(long, 150)
	assert.Equal(t, strings.Repeat("é", 150)+"...", got)

	assert.Equal(t, "a b", Excerpt("<p>a</p>\n\n<p>b</p>", 10))
}

func TestDiff(t *testing.T) {
	out := Diff("Fakultas Teknik", "Fakultas Teknik & Sains")
	assert.Contains(t, out, "<span>Fakultas Teknik</span>")
	assert.Contains(t, out, "<ins> &amp; Sains</ins>")

	out = Diff("a b c", "a c")
	assert.Contains(t, out, "<del>")
}

func TestStaticBlock(t *testing.T) {
	out, ok, err := StaticBlock(BlockMarkdown, map[string]any{"content": "*hai*"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out, "<em>hai</em>")

	out, ok, err = StaticBlock(BlockHTML, map[string]any{"content": `<p>x</p><script>y</script>`})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<p>x</p>", out)

	_, ok, err = StaticBlock("hero", map[string]any{"content": "x"})
	require.NoError(t, err)
	assert.False(t, ok)
}
