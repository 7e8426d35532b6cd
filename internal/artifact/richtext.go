package artifact

import "strings"

var lineBreaks = strings.NewReplacer("\r\n", "\n")

var paragraphs = strings.NewReplacer("<p>", "", "</p>", "\n")

// NormalizeRichText rewrites a description as one <div> per line. Paragraph
// markup and raw newlines both delimit lines; blank lines become
// <div><br></div>.
func NormalizeRichText(s string) string {
	s = strings.TrimSpace(paragraphs.Replace(lineBreaks.Replace(s)))
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			b.WriteString("<div><br></div>")
			continue
		}
		b.WriteString("<div>")
		b.WriteString(line)
		b.WriteString("</div>")
	}
	return b.String()
}
