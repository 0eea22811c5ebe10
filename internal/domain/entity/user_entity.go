package entity

import (
	"fmt"
	"strings"
	"time"
)

// User is the aggregate root for the identity domain.
// SecretHash holds a bcrypt hash and stays empty until a password is set.
type User struct {
	ID              string
	Email           string
	SecretHash      string
	FirstName       string
	LastName        string
	Gender          Gender
	PhoneNumber     string
	IdentityNumber  string
	Address         string
	IsVerifiedEmail bool
	Role            Role
	Status          ActivationStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// NormalizeEmail lower-cases and trims an address before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Activate moves the user to ACTIVE and marks the email as verified.
// A user without a password hash cannot become ACTIVE.
func (u *User) Activate() error {
	if err := u.Status.CheckTransition(StatusActive); err != nil {
		return err
	}
	if u.SecretHash == "" {
		return fmt.Errorf("%w: no password set", ErrInvalidTransition)
	}
	u.Status = StatusActive
	u.IsVerifiedEmail = true
	return nil
}
