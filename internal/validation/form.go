package validation

import (
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/codr1/pickupgames/internal/gamesapi"
)

const defaultPhoneRegion = "US"

// FormValues is the registration form as submitted, keyed by field name.
type FormValues map[string]string

// FormValuesFromURL keeps only the fields known to the rule table.
func FormValuesFromURL(form url.Values) FormValues {
	values := make(FormValues, len(Rules))
	for _, rule := range Rules {
		values[rule.Field] = strings.TrimSpace(form.Get(rule.Field))
	}
	return values
}

// Registration maps validated form values onto the upstream payload.
func (v FormValues) Registration(gameID int64) gamesapi.Registration {
	age, _ := LeadingInt(v[FieldAge])
	return gamesapi.Registration{
		PickupGame:  gameID,
		FirstName:   strings.TrimSpace(v[FieldFirstName]),
		LastName:    strings.TrimSpace(v[FieldLastName]),
		Email:       strings.TrimSpace(v[FieldEmail]),
		PhoneNumber: NormalizePhone(v[FieldPhone]),
		Age:         age,
	}
}

// NormalizePhone formats numbers that parse as valid (US by default) in
// national format, which still satisfies the phone rule. Anything else, such
// as a seven digit local number, is passed through trimmed.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return raw
	}
	return phonenumbers.Format(parsed, phonenumbers.NATIONAL)
}
