// Package validation holds the registration form rule table and its evaluator.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field names match the form input names.
const (
	FieldFirstName = "first-name"
	FieldLastName  = "last-name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldAge       = "age"
)

// CheckKind orders the checks inside a rule.
type CheckKind int

const (
	CheckRequired CheckKind = iota
	CheckMinLength
	CheckPattern
	CheckMin
	CheckMax
)

func (k CheckKind) String() string {
	switch k {
	case CheckRequired:
		return "required"
	case CheckMinLength:
		return "min_length"
	case CheckPattern:
		return "pattern"
	case CheckMin:
		return "min"
	case CheckMax:
		return "max"
	}
	return "unknown"
}

// Check is one predicate of a rule. Passes reports whether the trimmed value
// satisfies it.
type Check struct {
	Kind    CheckKind
	Passes  func(value string) bool
	Message string
}

// Rule is the ordered list of checks for one field.
type Rule struct {
	Field  string
	Label  string
	Checks []Check
}

// Whitespace classes include Unicode separators and U+FEFF, not just ASCII.
var (
	emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\v\p{Z}\x{FEFF}\-\(\)]+$`)
)

const (
	firstNameMessage = "First name must be at least 2 characters"
	lastNameMessage  = "Last name must be at least 2 characters"
	emailMessage     = "Please enter a valid email address"
	phoneMessage     = "Please enter a valid phone number"
	ageMessage       = "Age must be between 13 and 99"

	minNameLength = 2
	minAge        = 13
	maxAge        = 99
)

// Rules is the registration form rule table, in form order.
var Rules = []Rule{
	{
		Field: FieldFirstName,
		Label: "First Name",
		Checks: []Check{
			Required(firstNameMessage),
			MinLength(minNameLength, firstNameMessage),
		},
	},
	{
		Field: FieldLastName,
		Label: "Last Name",
		Checks: []Check{
			Required(lastNameMessage),
			MinLength(minNameLength, lastNameMessage),
		},
	},
	{
		Field: FieldEmail,
		Label: "Email",
		Checks: []Check{
			Required(emailMessage),
			Pattern(emailPattern, emailMessage),
		},
	},
	{
		Field: FieldPhone,
		Label: "Phone Number",
		Checks: []Check{
			Required(phoneMessage),
			Pattern(phonePattern, phoneMessage),
		},
	},
	{
		Field: FieldAge,
		Label: "Age",
		Checks: []Check{
			Required(ageMessage),
			Min(minAge, ageMessage),
			Max(maxAge, ageMessage),
		},
	},
}

// RuleFor returns the rule for field.
func RuleFor(field string) (Rule, bool) {
	for _, rule := range Rules {
		if rule.Field == field {
			return rule, true
		}
	}
	return Rule{}, false
}

func Required(message string) Check {
	return Check{
		Kind:    CheckRequired,
		Passes:  func(value string) bool { return value != "" },
		Message: message,
	}
}

func MinLength(n int, message string) Check {
	return Check{
		Kind:    CheckMinLength,
		Passes:  func(value string) bool { return utf8.RuneCountInString(value) >= n },
		Message: message,
	}
}

func Pattern(pattern *regexp.Regexp, message string) Check {
	return Check{
		Kind:    CheckPattern,
		Passes:  pattern.MatchString,
		Message: message,
	}
}

// Min fails when the value's leading integer is below n. Values without a
// leading integer fail too.
func Min(n int, message string) Check {
	return Check{
		Kind: CheckMin,
		Passes: func(value string) bool {
			parsed, ok := LeadingInt(value)
			return ok && parsed >= n
		},
		Message: message,
	}
}

func Max(n int, message string) Check {
	return Check{
		Kind: CheckMax,
		Passes: func(value string) bool {
			parsed, ok := LeadingInt(value)
			return ok && parsed <= n
		},
		Message: message,
	}
}

// LeadingInt parses an optional sign followed by the leading run of digits,
// so "21 years" reads as 21.
func LeadingInt(value string) (int, bool) {
	value = strings.TrimSpace(value)
	end := 0
	if end < len(value) && (value[end] == '-' || value[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	parsed, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0, false
	}
	return parsed, true
}
