package render

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer turns admin supplied product descriptions (markdown) into HTML
// that is safe to embed in a page.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	plain  *bluemonday.Policy
}

func New() *Renderer {
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
		plain:  bluemonday.StrictPolicy(),
	}
}

// HTML renders markdown and strips anything outside the UGC policy.
// Invalid markdown never fails; the raw text is escaped instead.
func (r *Renderer) HTML(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return r.plain.Sanitize(markdown)
	}
	return strings.TrimSpace(string(r.policy.SanitizeBytes(buf.Bytes())))
}

// Text strips every tag. Used for banner titles and subtitles.
func (r *Renderer) Text(s string) string {
	return strings.TrimSpace(r.plain.Sanitize(s))
}
