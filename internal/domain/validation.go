package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	fieldRequiredMessage = "This field is required"
	phoneNumberMessage   = "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."

	maxPhoneDigits   = 15
	maxAddressLength = 255
	maxZipCodeLength = 50
)

var phoneNumberRegex = regexp.MustCompile(`^(\+[0-9]{1,3})?[0-9]{9,15}$`)

// ValidatePhoneNumber accepts an optional "+country" prefix followed by the
// subscriber digits, at most 15 digits overall.
func ValidatePhoneNumber(phone string) error {
	if !phoneNumberRegex.MatchString(phone) || len(strings.TrimPrefix(phone, "+")) > maxPhoneDigits {
		return NewValidationError("phone_number", phoneNumberMessage)
	}
	return nil
}

// ValidateStock checks a requested quantity against the live stock.
func ValidateStock(quantity, stock int) error {
	if quantity > stock {
		return NewValidationError("quantity", "Not enough stock")
	}
	return nil
}

func validatePositiveQuantity(quantity int) error {
	if quantity < 1 {
		return NewValidationError("quantity", "Quantity must be at least 1.")
	}
	return nil
}

func (in AddCartItemInput) Validate() error {
	if in.ProductID == nil {
		return NewValidationError("product", fieldRequiredMessage)
	}
	if in.Quantity == nil {
		return NewValidationError("quantity", fieldRequiredMessage)
	}
	return validatePositiveQuantity(*in.Quantity)
}

func (in UpdateCartItemInput) Validate() error {
	if in.Quantity == nil {
		return NewValidationError("quantity", "Quantity is required")
	}
	return validatePositiveQuantity(*in.Quantity)
}

// Validate trims the free-text fields in place before checking them.
func (in *CheckoutInput) Validate() error {
	in.Address = strings.TrimSpace(in.Address)
	in.ZipCode = strings.TrimSpace(in.ZipCode)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if err := validateText("address", in.Address, maxAddressLength); err != nil {
		return err
	}
	if err := validateText("zip_code", in.ZipCode, maxZipCodeLength); err != nil {
		return err
	}
	if in.PhoneNumber == "" {
		return NewValidationError("phone_number", fieldRequiredMessage)
	}
	return ValidatePhoneNumber(in.PhoneNumber)
}

func validateText(field, value string, maxLength int) error {
	if value == "" {
		return NewValidationError(field, fieldRequiredMessage)
	}
	if utf8.RuneCountInString(value) > maxLength {
		return NewValidationError(field, fmt.Sprintf("Ensure this field has no more than %d characters.", maxLength))
	}
	return nil
}
