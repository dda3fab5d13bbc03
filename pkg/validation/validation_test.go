package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Name  string `json:"name" validate:"required,min=2"`
	Phone string `json:"phone" validate:"phone_digits"`
}

type sample struct {
	Email   string   `json:"email" validate:"required,email"`
	Date    string   `json:"date" validate:"required,datetime=2006-01-02"`
	Contact *contact `json:"contact" validate:"omitempty"`
}

func TestValidatorReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Struct(sample{Email: "nope", Date: "15/03/2022", Contact: &contact{Name: "A", Phone: "1199"}})
	require.Error(t, err)

	fields := v.Translate(err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "contact.name")
	assert.Equal(t, "phone deve ter pelo menos 10 dígitos", fields["contact.phone"])
	assert.Equal(t, "date deve ser uma data no formato AAAA-MM-DD", fields["date"])
}

func TestValidatorAcceptsValidPayload(t *testing.T) {
	v := New()
	err := v.Struct(sample{Email: "maria@example.com", Date: "2022-03-15", Contact: &contact{Name: "Ana", Phone: "(11) 99999-8888"}})
	assert.NoError(t, err)
}

func TestTranslateNonValidationError(t *testing.T) {
	fields := New().Translate(errors.New("boom"))
	assert.Equal(t, map[string]string{"detail": "boom"}, fields)
}
