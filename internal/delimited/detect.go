package delimited

import (
	"regexp"
	"strings"

	"github.com/cleared-dev/stmtimport/internal/model"
)

// roleRule guesses one role from a header name and, failing that, from the
// shape of a sample cell.
type roleRule struct {
	role   model.Role
	header []string
	cell   *regexp.Regexp
}

var (
	dateCell   = regexp.MustCompile(`^\d+[-/]\d+[-/]\d+(?:[ T][\d:.]+)?$`)
	amountCell = regexp.MustCompile(`^[-+]?\d+(?:[.,]\d+)*$`)
)

var roleRules = []roleRule{
	{role: model.RoleDate, header: []string{"date"}, cell: dateCell},
	{role: model.RoleAmount, header: []string{"amount"}, cell: amountCell},
	{role: model.RoleCategory, header: []string{"category"}},
	{role: model.RolePayee, header: []string{"payee"}},
	{role: model.RoleNotes, header: []string{"note", "memo"}},
	{role: model.RoleOutflow, header: []string{"outflow", "debit"}},
	{role: model.RoleInflow, header: []string{"inflow", "credit"}},
	{role: model.RoleInOut, header: []string{"in/out"}},
}

// DetectColumnMapping guesses the column of each role from the first row
// only. Roles are independent; for each one the first column in file order
// whose header matches wins, then the first whose cell matches.
func DetectColumnMapping(rows []model.RawRow) model.ColumnMapping {
	var m model.ColumnMapping
	if len(rows) == 0 {
		return m
	}
	entries := rows[0].Entries()
	for _, rule := range roleRules {
		if ref, ok := rule.match(entries); ok {
			m.Set(rule.role, ref)
		}
	}
	return m
}

func (r roleRule) match(entries []model.Entry) (string, bool) {
	for _, e := range entries {
		key := strings.ToLower(e.Key)
		for _, h := range r.header {
			if strings.Contains(key, h) {
				return e.Key, true
			}
		}
	}
	if r.cell == nil {
		return "", false
	}
	for _, e := range entries {
		if r.cell.MatchString(e.Value) {
			return e.Key, true
		}
	}
	return "", false
}
