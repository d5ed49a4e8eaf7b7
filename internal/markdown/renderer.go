package markdown

import (
	"regexp"
	"strings"
)

// A pass is one substitution step in the rendering pipeline.
type pass struct {
	re   *regexp.Regexp
	repl string
}

var (
	h3Re    = regexp.MustCompile(`(?m)^### (.+)$`)
	h2Re    = regexp.MustCompile(`(?m)^## (.+)$`)
	h1Re    = regexp.MustCompile(`(?m)^# (.+)$`)
	imageRe = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	linkRe  = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	listRe  = regexp.MustCompile(`(?m)^- (.+)$`)
	quoteRe = regexp.MustCompile(`(?m)^> (.+)$`)
	ruleRe  = regexp.MustCompile(`(?m)^---$`)
)

// postPasses is the full pipeline used on post pages. Heading passes run
// longest prefix first so "## " lines are consumed before the "# " pass sees
// them. The image pass must precede the link pass: image syntax contains
// link syntax as a suffix. All line-anchored passes run before the inline
// formatter's newline-to-<br> conversion, which would otherwise destroy the
// anchors.
var postPasses = []pass{
	{h3Re, `<h3 class="text-lg font-bold text-dark mt-6 mb-2">$1</h3>`},
	{h2Re, `<h2 class="text-xl font-bold text-dark mt-8 mb-3">$1</h2>`},
	{h1Re, `<h1 class="text-2xl font-bold text-dark mt-8 mb-4">$1</h1>`},
	{imageRe, `<img src="$2" alt="$1" class="my-4 rounded-lg max-w-full" />`},
	{linkRe, `<a href="$2" target="_blank" rel="noopener noreferrer" class="text-primary underline hover:text-secondary">$1</a>`},
	{listRe, `<li class="ml-4 mb-1">• $1</li>`},
	{quoteRe, `<blockquote class="border-l-4 border-primary pl-4 my-4 text-gray-600 italic">$1</blockquote>`},
	{ruleRe, `<hr class="my-8 border-gray-200" />`},
}

// profilePasses is the reduced pipeline used for profile free-text sections:
// smaller headings, no h1, no links, no quotes, no rules.
var profilePasses = []pass{
	{imageRe, `<img src="$2" alt="$1" class="my-4 rounded-lg max-w-full" />`},
	{h3Re, `<h3 class="text-base font-bold text-dark mt-4 mb-1">$1</h3>`},
	{h2Re, `<h2 class="text-lg font-bold text-dark mt-4 mb-2">$1</h2>`},
	{listRe, `<li class="ml-4">• $1</li>`},
}

func render(text string, passes []pass) string {
	if text == "" {
		return ""
	}

	html := text
	for _, p := range passes {
		html = p.re.ReplaceAllString(html, p.repl)
	}

	html = formatInline(html)
	html = strings.ReplaceAll(html, "\n", "<br>")

	return html
}

// Render converts post content to an HTML fragment.
// Malformed markup is not an error: unmatched syntax stays literal.
func Render(text string) string {
	return render(text, postPasses)
}

// RenderProfile converts profile free-text sections to an HTML fragment.
func RenderProfile(text string) string {
	return render(text, profilePasses)
}
