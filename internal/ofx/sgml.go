package ofx

import (
	"regexp"
	"strings"
)

var (
	spaceBeforeTag = regexp.MustCompile(`\s+<`)
	spaceAfterTag  = regexp.MustCompile(`>\s+`)
	dottedTag      = regexp.MustCompile(`<(/?[A-Za-z0-9_]*)\.+([A-Za-z0-9_]*)>`)
	openTag        = regexp.MustCompile(`^<(\w+)>$`)
	entityRef      = regexp.MustCompile(`^&(#[0-9]+|#x[0-9A-Fa-f]+|[A-Za-z][A-Za-z0-9]*);`)
)

// RepairSGML rewrites an SGML OFX body as XML. Whitespace next to tags is
// dropped, dots inside tag names are removed, bare ampersands are escaped,
// and every <TAG>text leaf gets a </TAG> unless one already follows.
func RepairSGML(body string) string {
	s := spaceBeforeTag.ReplaceAllString(strings.TrimSpace(body), "<")
	s = spaceAfterTag.ReplaceAllString(s, ">")
	s = dottedTag.ReplaceAllString(s, "<$1$2>")

	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	i := 0
	for i < len(s) {
		if s[i] != '<' {
			next := strings.IndexByte(s[i:], '<')
			if next < 0 {
				next = len(s) - i
			}
			b.WriteString(escapeAmp(s[i : i+next]))
			i += next
			continue
		}

		end := strings.IndexByte(s[i:], '>')
		if end < 0 {
			b.WriteString(escapeAmp(s[i:]))
			break
		}
		tag := s[i : i+end+1]
		i += end + 1
		b.WriteString(tag)

		m := openTag.FindStringSubmatch(tag)
		if m == nil {
			continue
		}
		textEnd := strings.IndexByte(s[i:], '<')
		if textEnd < 0 {
			textEnd = len(s) - i
		}
		if textEnd == 0 {
			continue
		}
		b.WriteString(escapeAmp(s[i : i+textEnd]))
		i += textEnd

		closing := "</" + m[1] + ">"
		b.WriteString(closing)
		if strings.HasPrefix(s[i:], closing) {
			i += len(closing)
		}
	}
	return b.String()
}

// escapeAmp escapes every '&' that does not start an entity reference.
func escapeAmp(text string) string {
	if !strings.Contains(text, "&") {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] == '&' && !entityRef.MatchString(text[i:]) {
			b.WriteString("&amp;")
			continue
		}
		b.WriteByte(text[i])
	}
	return b.String()
}
