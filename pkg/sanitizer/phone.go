package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const minPhoneDigits = 10

var phoneRegions = []string{"US", "BR", "IL"}

// NormalizePhone returns the E.164 form of phone when it parses with an
// explicit country code or under one of the supported regions, otherwise the
// bare digits. Empty string means the number is unusable (no digits, or too
// short).
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	// A leading + already names the country, no region guess needed.
	if strings.HasPrefix(phone, "+") {
		parsed, err := phonenumbers.Parse(phone, "")
		if err == nil && phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}

	for _, region := range phoneRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err == nil && phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}

	digits := Digits(phone)
	if len(digits) < minPhoneDigits {
		return ""
	}
	return digits
}

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
