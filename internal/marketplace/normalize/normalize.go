// Package normalize turns free-text contact details into comparison keys.
// Keys are only used for equality matching and are never displayed.
package normalize

import "strings"

// Phone strips every non-digit and returns a 10-digit US number.
// An 11-digit number with a leading country code 1 is shortened to 10 digits.
// Any other length is not usable for matching and reports false.
func Phone(input string) (string, bool) {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", false
	}
	return digits, true
}

// Email trims and lowercases the input. Anything without an "@" reports false.
func Email(input string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(input))
	if !strings.Contains(email, "@") {
		return "", false
	}
	return email, true
}
