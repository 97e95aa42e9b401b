package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePin(t *testing.T) {
	tests := []struct {
		name    string
		pin     string
		wantErr error
	}{
		{name: "valid pin", pin: "492817", wantErr: nil},
		{name: "valid pin with repeats", pin: "112358", wantErr: nil},
		{name: "too short", pin: "1234", wantErr: ErrPinFormat},
		{name: "too long", pin: "1234567", wantErr: ErrPinFormat},
		{name: "non digits", pin: "12a456", wantErr: ErrPinFormat},
		{name: "all identical", pin: "777777", wantErr: ErrPinWeak},
		{name: "ascending run", pin: "123456", wantErr: ErrPinWeak},
		{name: "ascending run offset", pin: "456789", wantErr: ErrPinWeak},
		{name: "descending run", pin: "654321", wantErr: ErrPinWeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePin(tt.pin)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHashAndComparePin(t *testing.T) {
	hash, err := HashPin("492817")
	assert.NoError(t, err)
	assert.True(t, ComparePin(hash, "492817"))
	assert.False(t, ComparePin(hash, "492818"))

	_, err = HashPin("111111")
	assert.ErrorIs(t, err, ErrPinWeak)
}
