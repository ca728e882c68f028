// Package contact validates and submits the portfolio contact form.
package contact

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

// jsSpace is the whitespace set browsers use for \s and String.prototype.trim.
const jsSpace = `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

const (
	nameMinLength    = 2
	nameMaxLength    = 30
	messageMaxLength = 1500
)

// Validation messages shown next to the offending field.
const (
	MsgNameRequired    = "Full Name is required"
	MsgNameLength      = "Full Name must be between 2-30 characters"
	MsgNameCharacters  = "Full Name can only contain letters, numbers, and spaces"
	MsgEmailRequired   = "Email is required"
	MsgEmailInvalid    = "Please enter a valid email address"
	MsgMessageRequired = "Message is required"
	MsgMessageTooLong  = "Message must not exceed 1500 characters"
)

var (
	nameAllowed    = regexp.MustCompile(`^[a-zA-Z0-9` + jsSpace + `]+$`)
	nameDisallowed = regexp.MustCompile(`[^a-zA-Z0-9` + jsSpace + `]`)
	emailShape     = regexp.MustCompile(`^[^` + jsSpace + `@]+@[^` + jsSpace + `@]+\.[^` + jsSpace + `@]+$`)
)

// ValidateName returns "" for a valid full name or the first failing check's message.
func ValidateName(name string) string {
	if isBlank(name) {
		return MsgNameRequired
	}
	if n := textLength(name); n < nameMinLength || n > nameMaxLength {
		return MsgNameLength
	}
	if !nameAllowed.MatchString(name) {
		return MsgNameCharacters
	}
	return ""
}

// ValidateEmail accepts the minimal local@domain.tld shape. Exotic but valid
// RFC addresses may be rejected.
func ValidateEmail(email string) string {
	if isBlank(email) {
		return MsgEmailRequired
	}
	if !emailShape.MatchString(email) {
		return MsgEmailInvalid
	}
	return ""
}

// ValidateMessage requires a non-blank message of at most 1500 characters.
func ValidateMessage(message string) string {
	if isBlank(message) {
		return MsgMessageRequired
	}
	if textLength(message) > messageMaxLength {
		return MsgMessageTooLong
	}
	return ""
}

// FilterName strips everything except ASCII letters, digits and whitespace.
// The name input runs through it before the value is stored.
func FilterName(raw string) string {
	return nameDisallowed.ReplaceAllString(raw, "")
}

// MessageLength reports the length the message counter shows.
func MessageLength(message string) int {
	return textLength(message)
}

// MessageLimit is the maximum message length.
func MessageLimit() int {
	return messageMaxLength
}

func isBlank(value string) bool {
	return strings.TrimFunc(value, isJSSpace) == ""
}

func isJSSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0x00a0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return r >= 0x2000 && r <= 0x200a
}

// textLength counts UTF-16 code units, matching the browser's string length.
func textLength(value string) int {
	n := 0
	for _, r := range value {
		n += utf16.RuneLen(r)
	}
	return n
}
