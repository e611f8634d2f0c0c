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

type inquiryForm struct {
	Name   string `validate:"required"`
	Email  string `validate:"required,email"`
	Rating int    `validate:"gte=0,lte=5"`
}

func TestValidate_Success(t *testing.T) {
	s := inquiryForm{Name: "Asha", Email: "asha@example.com", Rating: 4}
	err := Validate(s)
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	s := inquiryForm{Email: "asha@example.com", Rating: 4}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Name")
	assert.Equal(t, "is required", fields["Name"])
}

func TestValidate_InvalidEmail(t *testing.T) {
	s := inquiryForm{Name: "Asha", Email: "not-an-email", Rating: 4}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Email")
	assert.Equal(t, "must be a valid email address", fields["Email"])
}

func TestValidate_OutOfRange(t *testing.T) {
	s := inquiryForm{Name: "Asha", Email: "asha@example.com", Rating: 9}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Rating")
	assert.Contains(t, fields["Rating"], "5")
}

func TestValidate_MultipleErrors(t *testing.T) {
	s := inquiryForm{}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Name")
	assert.Contains(t, fields, "Email")
}

func TestValidationError_ErrorString(t *testing.T) {
	s := inquiryForm{}
	err := Validate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Name'")
	assert.Contains(t, err.Error(), "is required")
}

type minMaxStruct struct {
	Subject string `validate:"min=3"`
	Zone    string `validate:"max=5"`
}

func TestValidate_MinMax(t *testing.T) {
	s := minMaxStruct{Subject: "ab", Zone: "toolongstring"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields["Subject"], "at least 3")
	assert.Contains(t, fields["Zone"], "at most 5")
}

type uuidStruct struct {
	ID string `validate:"uuid"`
}

func TestValidate_UUID(t *testing.T) {
	s := uuidStruct{ID: "not-a-uuid"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "must be a valid UUID", fields["ID"])
}

func TestValidate_UUID_Valid(t *testing.T) {
	s := uuidStruct{ID: "550e8400-e29b-41d4-a716-446655440000"}
	err := Validate(s)
	assert.NoError(t, err)
}

type oneofStruct struct {
	InquiryType string `validate:"oneof=general wholesale support"`
}

func TestValidate_OneOf(t *testing.T) {
	s := oneofStruct{InquiryType: "gossip"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields["InquiryType"], "one of")
}

type phoneStruct struct {
	Phone string `validate:"omitempty,e164"`
}

func TestValidate_Phone(t *testing.T) {
	err := Validate(phoneStruct{Phone: "not-a-phone"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Phone"], "phone number")

	assert.NoError(t, Validate(phoneStruct{Phone: "+919876543210"}))
	assert.NoError(t, Validate(phoneStruct{}))
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"Name":"Asha","Email":"asha@example.com","Rating":5}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s inquiryForm
	err := DecodeAndValidate(req, &s)

	require.NoError(t, err)
	assert.Equal(t, "Asha", s.Name)
	assert.Equal(t, "asha@example.com", s.Email)
	assert.Equal(t, 5, s.Rating)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))

	var s inquiryForm
	err := DecodeAndValidate(req, &s)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	body := `{"Name":"","Email":"bad","Rating":2}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s inquiryForm
	err := DecodeAndValidate(req, &s)

	require.Error(t, err)
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
