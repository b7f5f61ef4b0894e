package validator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"homecrew/internal/domain"
)

type sample struct {
	Name  string `validate:"required"`
	Skill string `validate:"required,skill"`
	City  string `validate:"required,city"`
	Slot  string `validate:"omitempty,timeslot"`
}

func TestValidate_CustomTags(t *testing.T) {
	errs := Validate(sample{Name: "x", Skill: "painter", City: "Atlantis", Slot: "noon"})
	assert.Equal(t, map[string]string{"Skill": "skill", "City": "city", "Slot": "timeslot"}, errs)

	assert.Nil(t, Validate(sample{Name: "x", Skill: "plumber", City: "Pune"}))
}

func TestCheck_WrapsValidationError(t *testing.T) {
	err := Check(sample{Skill: "plumber", City: "Pune"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "Name=required")

	var fe FieldErrors
	assert.ErrorAs(t, fmt.Errorf("create booking: %w", err), &fe)
	assert.Equal(t, map[string]string{"Name": "required"}, fe.Details())

	assert.NoError(t, Check(sample{Name: "x", Skill: "plumber", City: "Pune"}))
}
