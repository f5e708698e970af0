// Package security handles sanitizing, validating and masking debrid API tokens.
package security

import (
	"regexp"
	"strings"
)

var (
	tokenPattern    = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	unsafeTokenChar = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
)

// TokenValidator provides validation and handling of API tokens
type TokenValidator struct {
	minLength int
	maxLength int
}

// NewTokenValidator creates a new token validator with reasonable defaults
func NewTokenValidator() *TokenValidator {
	return &TokenValidator{
		minLength: 8,
		maxLength: 128,
	}
}

// ValidateToken validates token format and length
func (v *TokenValidator) ValidateToken(token string) bool {
	if len(token) < v.minLength || len(token) > v.maxLength {
		return false
	}
	return tokenPattern.MatchString(token)
}

// SanitizeToken trims whitespace and strips characters that could inject into headers
func (v *TokenValidator) SanitizeToken(token string) string {
	return unsafeTokenChar.ReplaceAllString(strings.TrimSpace(token), "")
}

// MaskToken creates a masked version for logging (shows only first/last few chars)
func (v *TokenValidator) MaskToken(token string) string {
	if len(token) == 0 {
		return "[empty]"
	}
	if len(token) <= 8 {
		return "[***]"
	}
	return token[:3] + "..." + token[len(token)-3:]
}

// IsValidRealDebridToken validates Real-Debrid private token format.
// Private tokens are 52 uppercase alphanumerics; OAuth access tokens vary, so
// anything that passes the generic check and is at least 32 chars is accepted.
func (v *TokenValidator) IsValidRealDebridToken(token string) bool {
	return v.ValidateToken(token) && len(token) >= 32
}
