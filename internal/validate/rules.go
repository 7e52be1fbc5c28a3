// Package validate holds the pure field rules shared by the contact form and
// the checkout form. Every rule is side-effect free: value in, nil or a named
// reason out.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrNameRequired     = errors.New("name is required")
	ErrNameTooShort     = errors.New("name must be at least 3 characters")
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("email is invalid")
	ErrPhoneInvalid     = errors.New("phone is invalid")
	ErrSubjectRequired  = errors.New("subject must be selected")
	ErrMessageRequired  = errors.New("message is required")
	ErrMessageTooShort  = errors.New("message must be at least 10 characters")
	ErrTermsNotAccepted = errors.New("terms must be accepted")
	ErrCardNumber       = errors.New("card number must be 16 digits in groups of 4")
	ErrCardExpiry       = errors.New("expiry must be MM/YY")
	ErrCVV              = errors.New("cvv must be 3 or 4 digits")
	ErrInstallments     = errors.New("installments must be 1, 3, 6 or 12")
	ErrRequired         = errors.New("field is required")
)

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe      = regexp.MustCompile(`^[+]?[\d\s\-()]{8,20}$`)
	cardNumberRe = regexp.MustCompile(`^\d{4} \d{4} \d{4} \d{4}$`)
	cardExpiryRe = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
)

func Name(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(v) < 3 {
		return ErrNameTooShort
	}
	return nil
}

func Email(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return ErrEmailRequired
	}
	if !emailRe.MatchString(v) {
		return ErrEmailInvalid
	}
	return nil
}

// Phone accepts an empty value; the field is optional wherever this rule is
// used on its own.
func Phone(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if !phoneRe.MatchString(v) {
		return ErrPhoneInvalid
	}
	return nil
}

func Subject(v string) error {
	if strings.TrimSpace(v) == "" {
		return ErrSubjectRequired
	}
	return nil
}

func Message(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return ErrMessageRequired
	}
	if utf8.RuneCountInString(v) < 10 {
		return ErrMessageTooShort
	}
	return nil
}

func Accepted(v bool) error {
	if !v {
		return ErrTermsNotAccepted
	}
	return nil
}

func CardNumber(v string) error {
	if !cardNumberRe.MatchString(strings.TrimSpace(v)) {
		return ErrCardNumber
	}
	return nil
}

func CardExpiry(v string) error {
	if !cardExpiryRe.MatchString(strings.TrimSpace(v)) {
		return ErrCardExpiry
	}
	return nil
}

func CVV(v string) error {
	if !cvvRe.MatchString(strings.TrimSpace(v)) {
		return ErrCVV
	}
	return nil
}

func Installments(v int) error {
	switch v {
	case 1, 3, 6, 12:
		return nil
	}
	return ErrInstallments
}

func Required(v string) error {
	if strings.TrimSpace(v) == "" {
		return ErrRequired
	}
	return nil
}
