package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	ID       int64   `json:"id" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gt=0"`
}

func TestStructReportsJSONPaths(t *testing.T) {
	errs := Struct("order_items[1]", line{ID: 0, Price: -1, Quantity: 0})
	require.Len(t, errs, 3)

	assert.True(t, errs.Has("order_items[1].id"))
	assert.True(t, errs.Has("order_items[1].price"))
	assert.True(t, errs.Has("order_items[1].quantity"))
	for _, fe := range errs {
		assert.Equal(t, "field", fe.Type)
		assert.Equal(t, "body", fe.Location)
	}
}

func TestStructValid(t *testing.T) {
	assert.Nil(t, Struct("", line{ID: 1, Price: 8, Quantity: 2}))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;Anna &amp; Co&lt;/b&gt;", Sanitize("  <b>Anna & Co</b> "))
	assert.Equal(t, "", Sanitize("   "))
}

func TestNormalizeEmail(t *testing.T) {
	tests := map[string]string{
		"Anna.Smith+table@GoogleMail.com": "annasmith@gmail.com",
		"a.b@gmail.com":                   "ab@gmail.com",
		" Chef@Restaurant.FR ":            "chef@restaurant.fr",
		"first.last+x@example.com":        "first.last+x@example.com",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeEmail(in), in)
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("chef@restaurant.fr"))
	assert.False(t, IsEmail("not-an-email"))
	assert.False(t, IsEmail(""))
}

func TestErrorsError(t *testing.T) {
	errs := Errors{Field("guests", 0, "must be greater than 0")}
	assert.Equal(t, "invalid fields: guests: must be greater than 0", errs.Error())
}

func TestLength(t *testing.T) {
	short, long, wide := "0123456789", strings.Repeat("9", 51), strings.Repeat("é", 50)

	_, tooLong := Length("phone", nil, MaxPhoneLength)
	assert.False(t, tooLong)
	_, tooLong = Length("phone", &short, MaxPhoneLength)
	assert.False(t, tooLong)
	_, tooLong = Length("phone", &wide, MaxPhoneLength)
	assert.False(t, tooLong, "counts characters, not bytes")

	fe, tooLong := Length("phone", &long, MaxPhoneLength)
	require.True(t, tooLong)
	assert.Equal(t, "phone", fe.Path)
	assert.Equal(t, "must be at most 50 characters", fe.Msg)
}
