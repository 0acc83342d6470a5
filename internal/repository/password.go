package repository

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// PolicyError carries one description per password rule the input broke.
type PolicyError struct {
	Descriptions []string
}

func (e *PolicyError) Error() string {
	return "password policy: " + strings.Join(e.Descriptions, "; ")
}

// bcrypt refuses longer input.
const maxPasswordBytes = 72

type PasswordPolicy struct {
	MinLength int
}

// Check returns nil when password satisfies every rule.
func (p PasswordPolicy) Check(password string) *PolicyError {
	var failures []string

	if len([]rune(password)) < p.MinLength {
		failures = append(failures, fmt.Sprintf("Passwords must be at least %d characters.", p.MinLength))
	}
	if len(password) > maxPasswordBytes {
		failures = append(failures, fmt.Sprintf("Passwords must be at most %d bytes.", maxPasswordBytes))
	}

	var hasDigit, hasLower, hasUpper, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case !unicode.IsLetter(r):
			hasSymbol = true
		}
	}

	if !hasSymbol {
		failures = append(failures, "Passwords must have at least one non alphanumeric character.")
	}
	if !hasDigit {
		failures = append(failures, "Passwords must have at least one digit ('0'-'9').")
	}
	if !hasLower {
		failures = append(failures, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if !hasUpper {
		failures = append(failures, "Passwords must have at least one uppercase ('A'-'Z').")
	}

	if len(failures) == 0 {
		return nil
	}

	return &PolicyError{Descriptions: failures}
}

type passwordHasher struct {
	cost int
}

func (h passwordHasher) hash(password string) (string, error) {
	cost := h.cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

func (h passwordHasher) compare(hash string, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("compare password: %w", err)
	}

	return true, nil
}

// normalize gives the case-insensitive key used for email and role name uniqueness.
func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
