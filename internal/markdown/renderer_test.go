package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render(""))
}

func TestRender_Headings(t *testing.T) {
	assert.Contains(t, Render("# Title"), ">Title</h1>")
	assert.Contains(t, Render("## Section"), ">Section</h2>")
	assert.Contains(t, Render("### Sub"), ">Sub</h3>")

	// The h3 pass must consume "### " lines before the shorter prefixes see
	// them: no stray "#" may survive into the heading text.
	out := Render("### Sub")
	assert.NotContains(t, out, "#")
}

func TestRender_Image(t *testing.T) {
	out := Render("![a](http://x/y.png)")

	assert.Contains(t, out, `src="http://x/y.png"`)
	assert.Contains(t, out, `alt="a"`)
	assert.Contains(t, out, "<img")
}

func TestRender_Link(t *testing.T) {
	out := Render("[docs](https://example.com/p)")

	assert.Contains(t, out, `<a href="https://example.com/p"`)
	assert.Contains(t, out, `target="_blank"`)
	assert.Contains(t, out, `rel="noopener noreferrer"`)
	assert.Contains(t, out, ">docs</a>")
}

// Image syntax embeds link syntax, so the image pass has to win.
func TestRender_ImageBeforeLink(t *testing.T) {
	out := Render("![pic](http://x/a.png)")

	assert.Contains(t, out, "<img")
	assert.NotContains(t, out, "<a ")
}

func TestRender_ListQuoteRule(t *testing.T) {
	out := Render("- first\n- second\n> quoted\n---")

	assert.Equal(t, 2, strings.Count(out, "<li"))
	assert.Contains(t, out, "• first")
	assert.Contains(t, out, "• second")
	assert.Contains(t, out, "<blockquote")
	assert.Contains(t, out, ">quoted</blockquote>")
	assert.Contains(t, out, "<hr")
}

// Line-anchored passes must see real newlines: every block substitution has
// to land even though newlines become <br> at the end of the pipeline.
func TestRender_MultilineDocument(t *testing.T) {
	doc := "# Title\nintro **bold**\n- item\n> note\n---\ndone"
	out := Render(doc)

	require.NotContains(t, out, "\n")
	assert.Contains(t, out, ">Title</h1>")
	assert.Contains(t, out, "<strong")
	assert.Contains(t, out, "• item")
	assert.Contains(t, out, "<blockquote")
	assert.Contains(t, out, "<hr")
	assert.Contains(t, out, "<br>done")
}

// Malformed markup falls through as literal text, never an error.
func TestRender_MalformedMarkupPassesThrough(t *testing.T) {
	cases := []string{
		"stray ] bracket",
		"[no closing paren](http://x",
		"![alt only",
		"#not a heading",
	}
	for _, in := range cases {
		assert.Equal(t, in, Render(in), "input %q", in)
	}
}

func TestRender_HeadingOnlyAtLineStart(t *testing.T) {
	out := Render("see # not a heading")
	assert.NotContains(t, out, "<h1")
}

func TestRenderProfile_ReducedPasses(t *testing.T) {
	out := RenderProfile("## Career\n- did things\n[link](http://x/y)")

	assert.Contains(t, out, ">Career</h2>")
	assert.Contains(t, out, "• did things")
	// The profile pipeline has no link pass.
	assert.NotContains(t, out, "<a ")
	assert.Contains(t, out, "[link](http://x/y)")
}

func TestRenderProfile_SmallerHeadingClasses(t *testing.T) {
	assert.Contains(t, RenderProfile("### S"), "text-base")
	assert.Contains(t, Render("### S"), "text-lg")
}
