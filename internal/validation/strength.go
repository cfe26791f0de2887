package validation

import "strings"

// StrengthLevel buckets a password score for display.
type StrengthLevel string

const (
	StrengthWeak   StrengthLevel = "weak"
	StrengthMedium StrengthLevel = "medium"
	StrengthStrong StrengthLevel = "strong"
)

// Strength summarises how well a password candidate meets the signup rules.
type Strength struct {
	Score    int
	Level    StrengthLevel
	Feedback []string
	Valid    bool
}

const specialChars = `!@#$%^&*(),.?":{}|<>`

// PasswordStrength scores a candidate password for the signup strength meter.
// Special characters raise the score but are never required.
func PasswordStrength(password string) Strength {
	var score int
	var feedback []string

	if len(password) >= passwordMinLength {
		score++
	} else {
		feedback = append(feedback, "At least 8 characters")
	}
	if strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		score++
	} else {
		feedback = append(feedback, "One uppercase letter")
	}
	if strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		score++
	} else {
		feedback = append(feedback, "One lowercase letter")
	}
	if strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		score++
	} else {
		feedback = append(feedback, "One number")
	}
	if strings.ContainsAny(password, specialChars) {
		score++
	}

	level := StrengthWeak
	switch {
	case score >= 4:
		level = StrengthStrong
	case score >= 2:
		level = StrengthMedium
	}

	return Strength{
		Score:    score,
		Level:    level,
		Feedback: feedback,
		Valid:    score >= 3,
	}
}

// Sanitize trims user input, strips angle brackets, and caps the length at
// the longest free-text field the identity service accepts.
func Sanitize(input string) string {
	trimmed := strings.TrimSpace(input)
	cleaned := strings.Map(func(r rune) rune {
		if r == '<' || r == '>' {
			return -1
		}
		return r
	}, trimmed)
	if len(cleaned) > bioMaxLength {
		// Cap by characters, not bytes, so a multibyte rune is never split.
		if runes := []rune(cleaned); len(runes) > bioMaxLength {
			return string(runes[:bioMaxLength])
		}
	}
	return cleaned
}
