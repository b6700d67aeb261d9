package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signupLike struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,loose_email"`
	Type  string `json:"type" validate:"omitempty,oneof=rent buy"`
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("alice@example.com"))
	assert.False(t, IsValidEmail("alice@example"))
	assert.False(t, IsValidEmail("al ice@example.com"))
	assert.False(t, IsValidEmail(""))
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(signupLike{Name: "Alice", Email: "alice@example.com"}))

	err := Struct(signupLike{Email: "alice@example.com"})
	assert.EqualError(t, err, "name is required")

	err = Struct(signupLike{Name: "Alice", Email: "nope"})
	assert.EqualError(t, err, "Invalid email")

	err = Struct(signupLike{Name: "Alice", Email: "alice@example.com", Type: "lease"})
	assert.EqualError(t, err, "type must be one of: rent buy")
}
