package company

import "github.com/kailas-cloud/corpdex/internal/domain/record"

// FieldEmployees is the attribute enrichment attaches to a company.
const FieldEmployees = "employees"

// Company is a company record, optionally enriched with its employees.
type Company struct {
	rec       record.Record
	employees []record.Record
	enriched  bool
}

// New wraps a company record without employees.
func New(rec record.Record) Company {
	return Company{rec: rec}
}

// Record returns the underlying company record.
func (c Company) Record() record.Record { return c.rec }

// ID returns the company identity.
func (c Company) ID() (int64, bool) { return c.rec.ID() }

// Employees returns the attached employees in load order. Nil when not enriched.
func (c Company) Employees() []record.Record { return c.employees }

// Enriched reports whether employees were attached.
func (c Company) Enriched() bool { return c.enriched }

// WithEmployees returns an enriched copy. A nil slice is stored as empty.
func (c Company) WithEmployees(employees []record.Record) Company {
	if employees == nil {
		employees = []record.Record{}
	}
	return Company{rec: c.rec, employees: employees, enriched: true}
}

// Flatten returns the company record with "employees" set when enriched.
func (c Company) Flatten() record.Record {
	if !c.enriched {
		return c.rec
	}
	return c.rec.With(FieldEmployees, c.employees)
}

// Wrap converts records into companies without employees.
func Wrap(recs []record.Record) []Company {
	out := make([]Company, len(recs))
	for i, r := range recs {
		out[i] = New(r)
	}
	return out
}

// Enrich attaches to each company the employees whose company_id equals its id.
// Ids are compared by value and type, so "1" and 1 differ while "acme" and 2.5 join.
// Per-company order follows the employee load order.
func Enrich(companies, employees []record.Record) []Company {
	byCompany := make(map[any][]record.Record)
	for _, e := range employees {
		key, ok := e.CompanyIDKey()
		if !ok {
			continue
		}
		byCompany[key] = append(byCompany[key], e)
	}

	out := make([]Company, len(companies))
	for i, r := range companies {
		var emps []record.Record
		if key, ok := r.IDKey(); ok {
			emps = byCompany[key]
		}
		out[i] = New(r).WithEmployees(emps)
	}
	return out
}
