package snapshot

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizer = bluemonday.UGCPolicy()

	mdConverter = converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
)

// Markdown converts raw page HTML to a sanitized markdown reader view.
// The HTML is scrubbed before conversion so untrusted page markup never
// reaches the output. If conversion produces nothing useful, the normalized
// visible text is returned instead.
func Markdown(rawHTML string, pageURL string) string {
	clean := sanitizer.Sanitize(rawHTML)

	result, err := mdConverter.ConvertString(clean, converter.WithDomain(pageURL))
	if err == nil {
		if md := strings.TrimSpace(result); md != "" {
			return md
		}
	}

	text, err := FromHTML(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	return text
}
