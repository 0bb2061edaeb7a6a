package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	ID     int64 `json:"id" validate:"required"`
	Amount int   `json:"amount" validate:"min=1,max=32000"`
}

type request struct {
	Name  string  `json:"name" validate:"required,max=5"`
	Tags  []int64 `json:"tags" validate:"required,min=1,unique"`
	Items []item  `json:"ingredients" validate:"dive"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(request{Name: "soup", Tags: []int64{1}, Items: []item{{ID: 1, Amount: 3}}}))

	errs := Validate(request{Name: "too long", Tags: []int64{1, 1}, Items: []item{{ID: 1, Amount: 0}}})
	assert.Equal(t, "must be at most 5 characters", errs["name"])
	assert.Equal(t, "must not contain duplicates", errs["tags"])
	assert.Equal(t, "must be at least 1", errs["ingredients[0].amount"])

	errs = Validate(request{})
	assert.Equal(t, "this field is required", errs["name"])
	assert.Equal(t, "this field is required", errs["tags"])
}
