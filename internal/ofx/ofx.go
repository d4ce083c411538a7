// Package ofx reads OFX/QFX statements, in either their XML or their
// SGML (unclosed tag) dialect, down to the raw STMTTRN records.
package ofx

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/cleared-dev/stmtimport/internal/xmltree"
)

// ErrNoOFXRoot is returned when the input has no <OFX> element.
var ErrNoOFXRoot = errors.New("no <OFX> root element")

var (
	rootTag    = regexp.MustCompile(`<OFX\s*>`)
	datePrefix = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})`)
)

// Transaction is one STMTTRN record. Amount is the raw TRNAMT text and Date
// is YYYY-MM-DD, or empty when DTPOSTED has no date prefix.
type Transaction struct {
	Amount string `json:"amount"`
	FITID  string `json:"fitId"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Memo   string `json:"memo"`
	Type   string `json:"type"`
}

// Statement is a parsed OFX document.
type Statement struct {
	Headers      map[string]string
	Transactions []Transaction
}

// Message-set paths from the OFX root to the STMTTRN elements.
var (
	creditCardPath = []string{"CREDITCARDMSGSRSV1", "CCSTMTTRNRS", "CCSTMTRS", "BANKTRANLIST", "STMTTRN"}
	investmentPath = []string{"INVSTMTMSGSRSV1", "INVSTMTTRNRS", "INVSTMTRS", "INVTRANLIST", "INVBANKTRAN", "STMTTRN"}
	bankPath       = []string{"BANKMSGSRSV1", "STMTTRNRS", "STMTRS", "BANKTRANLIST", "STMTTRN"}
)

// Parse splits text into its header block and body, decodes the body, and
// extracts every transaction of the first message set present.
func Parse(text string) (*Statement, error) {
	loc := rootTag.FindStringIndex(text)
	if loc == nil {
		return nil, ErrNoOFXRoot
	}

	headers := parseHeaders(text[:loc[0]])
	root, err := parseBody(decodeBody(text[loc[0]:], headers))
	if err != nil {
		return nil, err
	}

	st := &Statement{Headers: headers}
	for _, n := range collect(root, messageSetPath(root)) {
		st.Transactions = append(st.Transactions, Transaction{
			Amount: n.TextAt("TRNAMT"),
			FITID:  n.TextAt("FITID"),
			Name:   Unescape(n.TextAt("NAME")),
			Date:   postedDate(n.TextAt("DTPOSTED")),
			Memo:   Unescape(n.TextAt("MEMO")),
			Type:   n.TextAt("TRNTYPE"),
		})
	}
	return st, nil
}

// parseBody tries the body as XML first and falls back to repairing it from
// SGML.
func parseBody(body string) (*xmltree.Node, error) {
	root, strictErr := xmltree.ParseString(body)
	if strictErr == nil {
		return root, nil
	}
	root, err := xmltree.ParseLenient(strings.NewReader(RepairSGML(body)))
	if err != nil {
		return nil, fmt.Errorf("parsing ofx body (strict: %v): %w", strictErr, err)
	}
	return root, nil
}

// decodeBody converts a body that is not valid UTF-8 from the character set
// named by the CHARSET header. Bytes that still do not decode become U+FFFD.
func decodeBody(body string, headers map[string]string) string {
	if utf8.ValidString(body) {
		return body
	}
	if label := charsetLabel(headers); label != "" {
		if enc, name := charset.Lookup(label); enc != nil && name != "utf-8" {
			if decoded, err := enc.NewDecoder().String(body); err == nil {
				return decoded
			}
		}
	}
	return strings.ToValidUTF8(body, "\uFFFD")
}

// charsetLabel maps the SGML header pair to an encoding label. OFX writes
// Windows code pages as bare numbers ("CHARSET:1252").
func charsetLabel(headers map[string]string) string {
	cs := strings.TrimSpace(headers["CHARSET"])
	if cs == "" || strings.EqualFold(cs, "NONE") {
		if strings.EqualFold(headers["ENCODING"], "UTF-8") {
			return "utf-8"
		}
		return ""
	}
	if _, err := strconv.Atoi(cs); err == nil {
		return "windows-" + cs
	}
	return cs
}

func parseHeaders(block string) map[string]string {
	headers := make(map[string]string)
	for _, line := range strings.Split(block, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return headers
}

func messageSetPath(root *xmltree.Node) []string {
	switch {
	case root.Child(creditCardPath[0]) != nil:
		return creditCardPath
	case root.Child(investmentPath[0]) != nil:
		return investmentPath
	default:
		return bankPath
	}
}

// collect walks path from root, following every repeated element at each
// level.
func collect(root *xmltree.Node, path []string) []*xmltree.Node {
	level := []*xmltree.Node{root}
	for _, name := range path {
		var next []*xmltree.Node
		for _, n := range level {
			next = append(next, n.ChildrenNamed(name)...)
		}
		level = next
	}
	return level
}

func postedDate(dt string) string {
	m := datePrefix.FindStringSubmatch(dt)
	if m == nil {
		return ""
	}
	return m[1] + "-" + m[2] + "-" + m[3]
}

// Unescape decodes the HTML entities banks leave in NAME and MEMO. The
// ampersand forms go last so "&amp;lt;" becomes "&lt;", not "<".
func Unescape(s string) string {
	for _, r := range [][2]string{
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&#39;", "'"},
		{"&quot;", `"`},
		{"&amp;", "&"},
		{"&#038;", "&"},
	} {
		s = strings.ReplaceAll(s, r[0], r[1])
	}
	return s
}
