package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type phoneDTO struct {
	Phone string `validate:"omitempty,phone"`
}

func TestPhoneRule(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"", true},
		{"+15551234567", true},
		{"15551234567", true},
		{"123456789", true},
		{"123", false},
		{"not-a-phone", false},
		{"+1 555 123 4567", false},
	}

	for _, tc := range tests {
		t.Run(tc.phone, func(t *testing.T) {
			err := Struct(&phoneDTO{Phone: tc.phone})
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
