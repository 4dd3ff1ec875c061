package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegister(t *testing.T) {
	assert.NoError(t, Validate(&RegisterRequest{Email: "a@b.com", Password: "secret1"}))

	err := Validate(&RegisterRequest{Email: "not-an-email", Password: "123"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "email must be a valid email address")
		assert.Contains(t, err.Error(), "password must be at least 6 characters")
	}
}

func TestValidateUsesJSONNames(t *testing.T) {
	err := Validate(&CreateConsultationRequest{Email: "a@b.com"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "firstName is required")
		assert.Contains(t, err.Error(), "medicalCondition is required")
	}
}

func TestValidateVerificationCode(t *testing.T) {
	assert.NoError(t, Validate(&VerifyEmailCodeRequest{Email: "a@b.com", Code: "012345"}))
	assert.Error(t, Validate(&VerifyEmailCodeRequest{Email: "a@b.com", Code: "12ab56"}))
	assert.Error(t, Validate(&VerifyEmailCodeRequest{Email: "a@b.com", Code: "1234"}))
}

func TestValidateOrder(t *testing.T) {
	assert.NoError(t, Validate(&CreateOrderRequest{ServiceID: 1, PaymentMethod: "alipay"}))
	err := Validate(&CreateOrderRequest{ServiceID: 1, PaymentMethod: "cash"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "paymentMethod must be one of")
	}
}
