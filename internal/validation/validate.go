package validation

import "strings"

// Trigger events for field-level validation.
const (
	EventBlur  = "blur"
	EventInput = "input"
)

// Result is the outcome of validating one field.
type Result struct {
	Field   string
	Value   string
	Valid   bool
	Message string
}

// FormResult holds one Result per rule, in rule order.
type FormResult struct {
	Fields []Result
}

func (r FormResult) Valid() bool {
	for _, field := range r.Fields {
		if !field.Valid {
			return false
		}
	}
	return true
}

// Errors maps failing fields to their messages.
func (r FormResult) Errors() map[string]string {
	errs := make(map[string]string)
	for _, field := range r.Fields {
		if !field.Valid {
			errs[field.Field] = field.Message
		}
	}
	return errs
}

// ValidateField runs field's checks in order and stops at the first failure.
// Fields without a rule always pass.
func ValidateField(field, value string) Result {
	value = strings.TrimSpace(value)
	result := Result{Field: field, Value: value, Valid: true}

	rule, ok := RuleFor(field)
	if !ok {
		return result
	}
	for _, check := range rule.Checks {
		if !check.Passes(value) {
			result.Valid = false
			result.Message = check.Message
			return result
		}
	}
	return result
}

// ValidateForm validates every field in the rule table; a field missing from
// values is treated as empty.
func ValidateForm(values map[string]string) FormResult {
	result := FormResult{Fields: make([]Result, 0, len(Rules))}
	for _, rule := range Rules {
		result.Fields = append(result.Fields, ValidateField(rule.Field, values[rule.Field]))
	}
	return result
}

// ShouldValidate reports whether a field event triggers validation: blur
// always, input only while the field shows an error.
func ShouldValidate(event string, hasError bool) bool {
	switch event {
	case EventBlur:
		return true
	case EventInput:
		return hasError
	}
	return false
}
