package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatText_Empty(t *testing.T) {
	assert.Equal(t, "", FormatText(""))
}

func TestFormatText_Bold(t *testing.T) {
	out := FormatText("say **hello** loud")

	assert.Equal(t, 1, strings.Count(out, "<strong"))
	assert.Equal(t, 1, strings.Count(out, "</strong>"))
	assert.Contains(t, out, ">hello</strong>")
}

func TestFormatText_Alert(t *testing.T) {
	out := FormatText("==注意== here")
	assert.Contains(t, out, `<span class="text-red-500 font-medium">注意</span>`)
}

func TestFormatText_Underline(t *testing.T) {
	out := FormatText("an __underlined__ word")
	assert.Contains(t, out, "<u>underlined</u>")
}

func TestFormatText_NewlinesBecomeBreaks(t *testing.T) {
	in := "one\ntwo\nthree\n"
	out := FormatText(in)

	assert.Equal(t, strings.Count(in, "\n"), strings.Count(out, "<br>"))
	assert.NotContains(t, out, "\n")
}

// Plain text must be a fixed point: running the formatter twice over markup-
// free input changes nothing.
func TestFormatText_IdempotentOnPlainText(t *testing.T) {
	inputs := []string{
		"hello world",
		"自己紹介です。よろしくお願いします",
		"no markers * here _ at all = ok",
	}
	for _, in := range inputs {
		once := FormatText(in)
		assert.Equal(t, once, FormatText(once), "input %q", in)
	}
}

// Unclosed markers are not an error; the raw text passes through.
func TestFormatText_UnclosedMarkupPassesThrough(t *testing.T) {
	out := FormatText("broken **bold and ==alert")
	assert.Equal(t, "broken **bold and ==alert", out)
}
