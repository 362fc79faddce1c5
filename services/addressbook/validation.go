// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package addressbook

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Contact info validation rules.
//
// The email rule is case sensitive: uppercase letters are rejected.
const (
	EmailPattern = `^([a-z0-9_.-]+)@([a-z0-9_.-]+)\.([a-z.]{2,6})$`
	PhonePattern = `^[\d\s()+\-.]+$`
)

// Validator tags registered on contactValidate.
const (
	emailTag = "abemail"
	phoneTag = "abphone"
)

var (
	emailRule = regexp.MustCompile(EmailPattern)
	phoneRule = regexp.MustCompile(PhonePattern)
)

// contactValidate is the shared validator instance for contact info.
// Initialized in init() with the email and phone rules.
var contactValidate *validator.Validate

func init() {
	contactValidate = validator.New()

	_ = contactValidate.RegisterValidation(emailTag, func(fl validator.FieldLevel) bool {
		return emailRule.MatchString(fl.Field().String())
	})
	_ = contactValidate.RegisterValidation(phoneTag, func(fl validator.FieldLevel) bool {
		return phoneRule.MatchString(fl.Field().String())
	})
}

// ValidEmail reports whether addr is an acceptable email address.
func ValidEmail(addr string) bool {
	return contactValidate.Var(addr, emailTag) == nil
}

// ValidPhone reports whether num is an acceptable phone number.
func ValidPhone(num string) bool {
	return contactValidate.Var(num, phoneTag) == nil
}
