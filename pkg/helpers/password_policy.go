package helpers

import "unicode"

const MinPasswordLength = 8

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

const (
	MsgPasswordEmpty    = "Password cannot be empty."
	MsgPasswordTooShort = "Password must be at least 8 characters long."
	MsgPasswordTooLong  = "Password must be at most 72 bytes long."
	MsgPasswordClasses  = "Password must meet at least two of the following: contain an uppercase letter, a lowercase letter, a number, or a special character."
)

// CheckPasswordStrength returns "" when plain satisfies the policy, otherwise
// the message explaining the first rule it breaks. A password needs at least
// MinPasswordLength characters, at most MaxPasswordBytes bytes, drawn from
// two or more of: upper case, lower case, digits, symbols.
func CheckPasswordStrength(plain string) string {
	if plain == "" {
		return MsgPasswordEmpty
	}
	if len([]rune(plain)) < MinPasswordLength {
		return MsgPasswordTooShort
	}
	if len(plain) > MaxPasswordBytes {
		return MsgPasswordTooLong
	}
	var upper, lower, digit, symbol bool
	for _, r := range plain {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsNumber(r):
			symbol = true
		}
	}
	classes := 0
	for _, ok := range []bool{upper, lower, digit, symbol} {
		if ok {
			classes++
		}
	}
	if classes < 2 {
		return MsgPasswordClasses
	}
	return ""
}
