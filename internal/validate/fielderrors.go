package validate

import "strings"

// FieldError ties a failed rule to the form field it was checked against.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// FieldErrors collects every failed field of a form so they can all be
// flagged at once instead of stopping at the first one.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Add records err under field; a nil err is ignored so rule results can be
// passed straight in.
func (e *FieldErrors) Add(field string, err error) {
	if err != nil {
		*e = append(*e, FieldError{Field: field, Err: err})
	}
}

// Fields lists the names of the failed fields in check order.
func (e FieldErrors) Fields() []string {
	fields := make([]string, len(e))
	for i, fe := range e {
		fields[i] = fe.Field
	}
	return fields
}

// Has reports whether the named field failed.
func (e FieldErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns the collection as an error, or nil when every rule passed.
func (e FieldErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
