package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPinFormat = errors.New("pin must be exactly 6 digits")
	ErrPinWeak   = errors.New("pin must not be sequential or repeated digits")
)

// ValidatePin enforces the 6-digit PIN policy: digits only, not all the
// same digit, and not an ascending or descending run like 123456 or 654321.
func ValidatePin(pin string) error {
	if len(pin) != 6 {
		return ErrPinFormat
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return ErrPinFormat
		}
	}

	identical := true
	ascending := true
	descending := true
	for i := 1; i < len(pin); i++ {
		if pin[i] != pin[0] {
			identical = false
		}
		if pin[i] != pin[i-1]+1 {
			ascending = false
		}
		if pin[i] != pin[i-1]-1 {
			descending = false
		}
	}
	if identical || ascending || descending {
		return ErrPinWeak
	}
	return nil
}

// HashPin hashes a PIN after validating the policy
func HashPin(pin string) (string, error) {
	if err := ValidatePin(pin); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePin reports whether the PIN matches the stored hash
func ComparePin(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
