package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submitRatingInput struct {
	ProductID string `validate:"required,uuid"`
	UserName  string `validate:"required,min=2,max=64"`
	Value     int    `validate:"gte=1,lte=5"`
}

func TestValidate_RatingOK(t *testing.T) {
	in := submitRatingInput{
		ProductID: "7f9c24e5-2b31-4bce-a7d6-1b0f6b1e9a02",
		UserName:  "marisol",
		Value:     4,
	}
	assert.NoError(t, Validate(in))
}

func TestValidate_RatingFieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   submitRatingInput
		field   string
		wantMsg string
	}{
		{
			name:    "missing user name",
			input:   submitRatingInput{ProductID: "7f9c24e5-2b31-4bce-a7d6-1b0f6b1e9a02", Value: 3},
			field:   "UserName",
			wantMsg: "is required",
		},
		{
			name:    "malformed product id",
			input:   submitRatingInput{ProductID: "squeaky-toy", UserName: "marisol", Value: 3},
			field:   "ProductID",
			wantMsg: "must be a valid UUID",
		},
		{
			name:    "rating above scale",
			input:   submitRatingInput{ProductID: "7f9c24e5-2b31-4bce-a7d6-1b0f6b1e9a02", UserName: "marisol", Value: 6},
			field:   "Value",
			wantMsg: "less than or equal to 5",
		},
		{
			name:    "rating below scale",
			input:   submitRatingInput{ProductID: "7f9c24e5-2b31-4bce-a7d6-1b0f6b1e9a02", UserName: "marisol", Value: 0},
			field:   "Value",
			wantMsg: "greater than or equal to 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			require.Error(t, err)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			fields := valErr.Fields()
			require.Contains(t, fields, tt.field)
			assert.Contains(t, fields[tt.field], tt.wantMsg)
		})
	}
}

func TestValidate_CollectsEveryBadField(t *testing.T) {
	err := Validate(submitRatingInput{Value: 9})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "ProductID")
	assert.Contains(t, fields, "UserName")
	assert.Contains(t, fields, "Value")
}

func TestValidationError_ErrorJoinsMessages(t *testing.T) {
	err := Validate(submitRatingInput{ProductID: "7f9c24e5-2b31-4bce-a7d6-1b0f6b1e9a02", Value: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'UserName'")
	assert.Contains(t, err.Error(), "is required")
}

type checkoutInput struct {
	Email   string `validate:"required,email"`
	Address string `validate:"required,min=10"`
	Payment string `validate:"oneof=card paypal invoice"`
}

func TestValidate_CheckoutEmail(t *testing.T) {
	in := checkoutInput{Email: "terrier.fan.example.com", Address: "1 Bone Yard Lane, Kibbleton", Payment: "card"}
	err := Validate(in)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["Email"])
}

func TestValidate_CheckoutPaymentMethod(t *testing.T) {
	in := checkoutInput{Email: "luna@pawmart.test", Address: "1 Bone Yard Lane, Kibbleton", Payment: "barter"}
	err := Validate(in)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Payment"], "one of")
}

func TestValidate_CheckoutAddressTooShort(t *testing.T) {
	in := checkoutInput{Email: "luna@pawmart.test", Address: "short", Payment: "paypal"}
	err := Validate(in)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Address"], "at least 10")
}

type commentInput struct {
	Text string `validate:"required,max=20"`
}

func TestValidate_CommentLengthCap(t *testing.T) {
	err := Validate(commentInput{Text: strings.Repeat("woof ", 10)})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Text"], "at most 20")
}

func TestDecodeAndValidate_OK(t *testing.T) {
	body := `{"ProductID":"7f9c24e5-2b31-4bce-a7d6-1b0f6b1e9a02","UserName":"marisol","Value":5}`
	req := httptest.NewRequest(http.MethodPost, "/ratings", bytes.NewBufferString(body))

	var in submitRatingInput
	require.NoError(t, DecodeAndValidate(req, &in))
	assert.Equal(t, "marisol", in.UserName)
	assert.Equal(t, 5, in.Value)
}

func TestDecodeAndValidate_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/ratings", strings.NewReader(`{"Value": 5,`))

	var in submitRatingInput
	err := DecodeAndValidate(req, &in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_DecodedButInvalid(t *testing.T) {
	body := `{"ProductID":"7f9c24e5-2b31-4bce-a7d6-1b0f6b1e9a02","UserName":"m","Value":3}`
	req := httptest.NewRequest(http.MethodPost, "/ratings", bytes.NewBufferString(body))

	var in submitRatingInput
	err := DecodeAndValidate(req, &in)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["UserName"], "at least 2")
}
