package record

// Kind selects a record collection and its storage location.
type Kind string

// Record kinds.
const (
	Companies Kind = "companies"
	Employees Kind = "employees"
)

// Kinds returns every known record kind.
func Kinds() []Kind { return []Kind{Companies, Employees} }

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == Companies || k == Employees
}
