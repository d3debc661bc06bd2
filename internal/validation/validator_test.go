package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social/infrastructure"
)

type sample struct {
	Name   string   `json:"name" validate:"required,max=5"`
	Status string   `json:"status" validate:"omitempty,oneof=a b"`
	IDs    []string `json:"ids" validate:"dive,uuid"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(&sample{Name: "ok", Status: "a"}))

	err := ValidateStruct(&sample{Name: "", Status: "z", IDs: []string{"nope"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, infrastructure.ErrInvalidInput))

	var verr *RequestValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)
	assert.Equal(t, "name", verr.Fields[0].Field)
	assert.Equal(t, "required", verr.Fields[0].Tag)
	assert.Equal(t, "oneof", verr.Fields[1].Tag)
	assert.Contains(t, err.Error(), "status failed oneof=a b")
}

func TestGetValidatorSingleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
