package validation

import (
	"net/url"
	"testing"
)

func TestValidateField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		valid   bool
		message string
	}{
		{"valid first name", FieldFirstName, "Ana", true, ""},
		{"first name too short", FieldFirstName, "A", false, "First name must be at least 2 characters"},
		{"first name empty", FieldFirstName, "   ", false, "First name must be at least 2 characters"},
		{"last name too short", FieldLastName, "L", false, "Last name must be at least 2 characters"},
		{"valid email", FieldEmail, "ana@example.com", true, ""},
		{"email without tld", FieldEmail, "a@b", false, "Please enter a valid email address"},
		{"email with spaces", FieldEmail, "ana lopez@example.com", false, "Please enter a valid email address"},
		{"email with no-break space", FieldEmail, "ana\u00a0lopez@example.com", false, "Please enter a valid email address"},
		{"email with ideographic space", FieldEmail, "ana@example\u3000.com", false, "Please enter a valid email address"},
		{"email with byte order mark", FieldEmail, "ana@exa\ufeffmple.com", false, "Please enter a valid email address"},
		{"local phone", FieldPhone, "555-1234", true, ""},
		{"formatted phone", FieldPhone, "(555) 123-4567", true, ""},
		{"phone with no-break space", FieldPhone, "555\u00a0123-4567", true, ""},
		{"phone with letters", FieldPhone, "555-CALL", false, "Please enter a valid phone number"},
		{"phone with plus", FieldPhone, "+1 555 123 4567", false, "Please enter a valid phone number"},
		{"age lower bound", FieldAge, "13", true, ""},
		{"age upper bound", FieldAge, "99", true, ""},
		{"age too young", FieldAge, "12", false, "Age must be between 13 and 99"},
		{"age too old", FieldAge, "100", false, "Age must be between 13 and 99"},
		{"age not a number", FieldAge, "old", false, "Age must be between 13 and 99"},
		{"age empty", FieldAge, "", false, "Age must be between 13 and 99"},
		{"unknown field passes", "nickname", "", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateField(tt.field, tt.value)
			if got.Valid != tt.valid {
				t.Errorf("ValidateField(%q, %q).Valid = %v, want %v", tt.field, tt.value, got.Valid, tt.valid)
			}
			if got.Message != tt.message {
				t.Errorf("ValidateField(%q, %q).Message = %q, want %q", tt.field, tt.value, got.Message, tt.message)
			}
		})
	}
}

func TestValidateFieldStopsAtFirstFailure(t *testing.T) {
	calls := 0
	counting := func(kind CheckKind, pass bool, message string) Check {
		return Check{
			Kind:    kind,
			Message: message,
			Passes: func(string) bool {
				calls++
				return pass
			},
		}
	}

	saved := Rules
	t.Cleanup(func() { Rules = saved })
	Rules = []Rule{{
		Field: "nickname",
		Checks: []Check{
			counting(CheckRequired, true, "required"),
			counting(CheckMinLength, false, "too short"),
			counting(CheckPattern, false, "pattern"),
		},
	}}

	got := ValidateField("nickname", "x")
	if got.Message != "too short" {
		t.Fatalf("expected first failing message, got %q", got.Message)
	}
	if calls != 2 {
		t.Fatalf("expected evaluation to stop after 2 checks, ran %d", calls)
	}
}

func TestRuleCheckOrder(t *testing.T) {
	for _, rule := range Rules {
		for i := 1; i < len(rule.Checks); i++ {
			if rule.Checks[i-1].Kind >= rule.Checks[i].Kind {
				t.Errorf("rule %s: %s runs before %s", rule.Field, rule.Checks[i-1].Kind, rule.Checks[i].Kind)
			}
		}
	}
}

func TestValidateForm(t *testing.T) {
	valid := map[string]string{
		FieldFirstName: "Ana",
		FieldLastName:  "Lopez",
		FieldEmail:     "ana@example.com",
		FieldPhone:     "555-1234",
		FieldAge:       "29",
	}
	if result := ValidateForm(valid); !result.Valid() {
		t.Fatalf("expected valid form, got errors %v", result.Errors())
	}

	invalid := map[string]string{
		FieldFirstName: "A",
		FieldLastName:  "Lopez",
		FieldEmail:     "a@b",
		FieldAge:       "12",
	}
	result := ValidateForm(invalid)
	if result.Valid() {
		t.Fatal("expected invalid form")
	}
	errs := result.Errors()
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %v", errs)
	}
	if errs[FieldPhone] != "Please enter a valid phone number" {
		t.Errorf("missing phone should fail required, got %q", errs[FieldPhone])
	}
	if _, ok := errs[FieldLastName]; ok {
		t.Errorf("valid last name reported as error")
	}
}

func TestShouldValidate(t *testing.T) {
	tests := []struct {
		event    string
		hasError bool
		expected bool
	}{
		{EventBlur, false, true},
		{EventBlur, true, true},
		{EventInput, false, false},
		{EventInput, true, true},
		{"change", true, false},
	}
	for _, tt := range tests {
		if got := ShouldValidate(tt.event, tt.hasError); got != tt.expected {
			t.Errorf("ShouldValidate(%q, %v) = %v, want %v", tt.event, tt.hasError, got, tt.expected)
		}
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		input string
		value int
		ok    bool
	}{
		{"42", 42, true},
		{" 21 years", 21, true},
		{"-5", -5, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		value, ok := LeadingInt(tt.input)
		if value != tt.value || ok != tt.ok {
			t.Errorf("LeadingInt(%q) = %d, %v; want %d, %v", tt.input, value, ok, tt.value, tt.ok)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"10 digits with dashes", "201-555-0123", "(201) 555-0123"},
		{"10 digits with parens", "(201) 555-0123", "(201) 555-0123"},
		{"dotted", "201.555.0123", "(201) 555-0123"},
		{"local number kept", "555-1234", "555-1234"},
		{"empty", "  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if got != "" && !ValidateField(FieldPhone, got).Valid {
				t.Errorf("normalized phone %q fails the phone rule", got)
			}
		})
	}
}

func TestFormValuesRegistration(t *testing.T) {
	form := url.Values{
		FieldFirstName: {" Ana "},
		FieldLastName:  {"Lopez"},
		FieldEmail:     {"ana@example.com"},
		FieldPhone:     {"555-1234"},
		FieldAge:       {"29"},
		"extra":        {"ignored"},
	}
	values := FormValuesFromURL(form)
	if _, ok := values["extra"]; ok {
		t.Fatal("unknown field kept")
	}

	reg := values.Registration(12)
	if reg.PickupGame != 12 || reg.FirstName != "Ana" || reg.Age != 29 || reg.PhoneNumber != "555-1234" {
		t.Fatalf("unexpected registration: %+v", reg)
	}
}
