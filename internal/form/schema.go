// Package form implements declarative validation of raw form input.
// A Schema is an ordered set of fields, each carrying a list of rules;
// validation is non-short-circuiting and collects every failing field.
package form

// Rule checks a single raw value and carries the message surfaced to
// the user when the check fails.
type Rule struct {
	Check   func(value string) bool
	Message string
}

// Field binds a form field name to its rules. A field with no rules is
// accepted as-is.
type Field struct {
	Name  string
	Rules []Rule
}

// Schema is an ordered collection of field rules.
type Schema struct {
	fields []Field
}

// New builds a schema from the given fields.
func New(fields ...Field) Schema {
	return Schema{fields: fields}
}

// Omit derives a sub-schema excluding the named fields. The remaining
// fields keep their rules and relative order.
func (s Schema) Omit(names ...string) Schema {
	omitted := make(map[string]bool, len(names))
	for _, name := range names {
		omitted[name] = true
	}

	kept := make([]Field, 0, len(s.fields))
	for _, field := range s.fields {
		if !omitted[field.Name] {
			kept = append(kept, field)
		}
	}
	return Schema{fields: kept}
}

// Validate applies every rule of every field to values. All failing
// fields are reported together, with messages grouped per field in
// rule order.
func (s Schema) Validate(values map[string]string) Result {
	result := Result{FieldErrors: map[string][]string{}}

	for _, field := range s.fields {
		value := values[field.Name]
		for _, rule := range field.Rules {
			if !rule.Check(value) {
				result.FieldErrors[field.Name] = append(result.FieldErrors[field.Name], rule.Message)
			}
		}
	}

	return result
}

// Result is the outcome of one validation pass.
type Result struct {
	FieldErrors map[string][]string
}

// Valid reports whether no field failed.
func (r Result) Valid() bool {
	return len(r.FieldErrors) == 0
}
