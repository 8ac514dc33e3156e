package models

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern     = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	phoneSeparators  = regexp.MustCompile(`[\s\-()]`)
	filenameReplacer = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

const (
	minNameLength    = 2
	minSummaryLength = 10
)

func ValidName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= minNameLength
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone accepts an empty phone; otherwise spaces, dashes and
// parentheses are ignored and an optional leading + is allowed.
func ValidPhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phoneSeparators.ReplaceAllString(phone, ""))
}

// LoginProblem returns the first user-facing problem with the credentials,
// or "" when they are acceptable.
func LoginProblem(name, email string) string {
	if !ValidName(name) {
		return "Please enter a valid name (at least 2 characters)."
	}
	if !ValidEmail(email) {
		return "Please enter a valid email address."
	}
	return ""
}

// ProfileProblems lists every user-facing problem with a profile input.
func ProfileProblems(in ProfileInput) []string {
	var problems []string

	if utf8.RuneCountInString(strings.TrimSpace(in.Summary)) < minSummaryLength {
		problems = append(problems, "Professional summary must be at least 10 characters long")
	}
	if !ValidPhone(in.Phone) {
		problems = append(problems, "Invalid phone number format")
	}

	return problems
}

// SanitizeFilename replaces every character outside [A-Za-z0-9] with '_'.
func SanitizeFilename(name string) string {
	return filenameReplacer.ReplaceAllString(name, "_")
}
