package application

import "github.com/oksasatya/go-pizza-api/pkg/helpers"

// CheckPassword applies the strength policy. An empty password is
// ErrPasswordNotSet; a weak one is ErrWeakPassword carrying the policy message.
func CheckPassword(plain string) error {
	if plain == "" {
		return ErrPasswordNotSet
	}
	if msg := helpers.CheckPasswordStrength(plain); msg != "" {
		return ErrWeakPassword.WithMessage(msg)
	}
	return nil
}
