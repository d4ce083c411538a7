package model

// Role is the logical meaning of a delimited-file column.
type Role string

const (
	RoleDate     Role = "date"
	RoleAmount   Role = "amount"
	RolePayee    Role = "payee"
	RoleNotes    Role = "notes"
	RoleCategory Role = "category"
	RoleOutflow  Role = "outflow"
	RoleInflow   Role = "inflow"
	RoleInOut    Role = "inOut"
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleDate, RoleAmount, RolePayee, RoleNotes, RoleCategory, RoleOutflow, RoleInflow, RoleInOut}

// ColumnMapping maps each role to a column reference (header name or numeric
// index). An empty reference means the role is absent.
type ColumnMapping struct {
	Date     string `yaml:"date,omitempty" json:"date,omitempty"`
	Amount   string `yaml:"amount,omitempty" json:"amount,omitempty"`
	Payee    string `yaml:"payee,omitempty" json:"payee,omitempty"`
	Notes    string `yaml:"notes,omitempty" json:"notes,omitempty"`
	Category string `yaml:"category,omitempty" json:"category,omitempty"`
	Outflow  string `yaml:"outflow,omitempty" json:"outflow,omitempty"`
	Inflow   string `yaml:"inflow,omitempty" json:"inflow,omitempty"`
	InOut    string `yaml:"in_out,omitempty" json:"inOut,omitempty"`
}

func (m *ColumnMapping) field(role Role) *string {
	switch role {
	case RoleDate:
		return &m.Date
	case RoleAmount:
		return &m.Amount
	case RolePayee:
		return &m.Payee
	case RoleNotes:
		return &m.Notes
	case RoleCategory:
		return &m.Category
	case RoleOutflow:
		return &m.Outflow
	case RoleInflow:
		return &m.Inflow
	case RoleInOut:
		return &m.InOut
	}
	return nil
}

// Get returns the reference for role.
func (m ColumnMapping) Get(role Role) string {
	if f := m.field(role); f != nil {
		return *f
	}
	return ""
}

// Set assigns the reference for role.
func (m *ColumnMapping) Set(role Role, ref string) {
	if f := m.field(role); f != nil {
		*f = ref
	}
}

// Override returns m with every non-empty reference in explicit replacing
// the detected one.
func (m ColumnMapping) Override(explicit ColumnMapping) ColumnMapping {
	out := m
	for _, role := range Roles {
		if ref := explicit.Get(role); ref != "" {
			out.Set(role, ref)
		}
	}
	return out
}
