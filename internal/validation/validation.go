// Package validation checks authentication form input against the role- and
// mode-aware rules of the platform. Every function is pure and synchronous;
// rendering and network side effects belong to the callers.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"versenest/models"
)

// Mode distinguishes the two form variants a role panel can show.
type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
)

// Field names match the HTML input names used by the auth forms.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldName            = "name"
	FieldPenName         = "penName"
	FieldBio             = "bio"
	FieldGenres          = "genres"
	FieldPreferredGenres = "preferredGenres"
	FieldMoodPreferences = "moodPreferences"
	FieldAcceptTerms     = "acceptTerms"
)

const (
	passwordMinLength = 8
	nameMinLength     = 2
	penNameMinLength  = 2
	penNameMaxLength  = 50
	bioMaxLength      = 500
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

// Result reports the outcome of a single-field check. Message is empty when
// the field is valid.
type Result struct {
	Valid   bool
	Message string
}

func ok() Result {
	return Result{Valid: true}
}

func fail(message string) Result {
	return Result{Valid: false, Message: message}
}

// Form carries the raw values of one auth form submission. Fields that do not
// apply to the current mode or role are simply left zero.
type Form struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
	PenName         string
	Bio             string
	Genres          []string
	PreferredGenres []string
	MoodPreferences []string
	AcceptTerms     bool
}

// ValidateEmail requires a non-empty local@domain.tld shape.
func ValidateEmail(email string) Result {
	if strings.TrimSpace(email) == "" {
		return fail("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return fail("Please enter a valid email address")
	}
	return ok()
}

// ValidateLoginPassword only requires presence; strength rules apply to
// signup alone.
func ValidateLoginPassword(password string) Result {
	if password == "" {
		return fail("Password is required")
	}
	return ok()
}

// ValidatePassword enforces the signup strength rules: minimum length plus at
// least one uppercase letter, one lowercase letter, and one digit.
func ValidatePassword(password string) Result {
	if password == "" {
		return fail("Password is required")
	}
	if len(password) < passwordMinLength {
		return fail(fmt.Sprintf("Password must be at least %d characters long", passwordMinLength))
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return fail("Password must contain at least one uppercase letter")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		return fail("Password must contain at least one lowercase letter")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		return fail("Password must contain at least one number")
	}
	return ok()
}

// ValidatePasswordConfirmation requires the confirmation to match exactly.
func ValidatePasswordConfirmation(password, confirmation string) Result {
	if confirmation == "" {
		return fail("Please confirm your password")
	}
	if password != confirmation {
		return fail("Passwords do not match")
	}
	return ok()
}

// ValidateName requires at least two characters made of letters and spaces.
func ValidateName(name string) Result {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fail("Name is required")
	}
	if len(trimmed) < nameMinLength {
		return fail("Name must be at least 2 characters long")
	}
	if !namePattern.MatchString(trimmed) {
		return fail("Name can only contain letters and spaces")
	}
	return ok()
}

// ValidatePenName requires a 2-50 character alias.
func ValidatePenName(penName string) Result {
	trimmed := strings.TrimSpace(penName)
	if trimmed == "" {
		return fail("Pen name is required")
	}
	if len(trimmed) < penNameMinLength {
		return fail("Pen name must be at least 2 characters long")
	}
	if len(trimmed) > penNameMaxLength {
		return fail("Pen name must be less than 50 characters")
	}
	return ok()
}

// ValidateBio allows an empty bio but caps its length.
func ValidateBio(bio string) Result {
	if len(bio) > bioMaxLength {
		return fail("Bio must be less than 500 characters")
	}
	return ok()
}

// ValidateSelection requires at least min tags to be chosen. The label is
// used verbatim inside the message, lowercased.
func ValidateSelection(selection []string, label string, min int) Result {
	if len(selection) < min {
		return fail(fmt.Sprintf("Please select at least %d %s", min, strings.ToLower(label)))
	}
	return ok()
}

// ValidateTerms requires the terms checkbox to be ticked.
func ValidateTerms(accepted bool) Result {
	if !accepted {
		return fail("You must accept the terms and conditions")
	}
	return ok()
}

// ValidateField checks a single field of the form in its mode and role
// context. Unknown fields and fields that do not apply to the combination are
// valid by definition, so editing one never disturbs another field's state.
func ValidateField(form Form, field string, mode Mode, role models.Role) Result {
	switch field {
	case FieldEmail:
		return ValidateEmail(form.Email)
	case FieldPassword:
		if mode == ModeSignup {
			return ValidatePassword(form.Password)
		}
		return ValidateLoginPassword(form.Password)
	}

	if mode != ModeSignup {
		return ok()
	}

	switch field {
	case FieldConfirmPassword:
		return ValidatePasswordConfirmation(form.Password, form.ConfirmPassword)
	case FieldName:
		return ValidateName(form.Name)
	case FieldAcceptTerms:
		return ValidateTerms(form.AcceptTerms)
	case FieldPenName:
		if role == models.RoleWriter {
			return ValidatePenName(form.PenName)
		}
	case FieldBio:
		if role == models.RoleWriter {
			return ValidateBio(form.Bio)
		}
	case FieldGenres:
		if role == models.RoleWriter {
			return ValidateSelection(form.Genres, "genre", 1)
		}
	case FieldPreferredGenres:
		if role == models.RoleReader {
			return ValidateSelection(form.PreferredGenres, "preferred genre", 1)
		}
	}
	return ok()
}

// ValidateForm aggregates every per-field result that applies to the mode and
// role. The form is invalid iff any applicable field failed; fields outside
// the combination never contribute an error.
func ValidateForm(form Form, mode Mode, role models.Role) (bool, map[string]string) {
	errors := map[string]string{}

	fields := []string{FieldEmail, FieldPassword}
	if mode == ModeSignup {
		fields = append(fields, FieldConfirmPassword, FieldName, FieldAcceptTerms)
		switch role {
		case models.RoleWriter:
			fields = append(fields, FieldPenName, FieldBio, FieldGenres)
		case models.RoleReader:
			fields = append(fields, FieldPreferredGenres)
		}
	}

	for _, field := range fields {
		if result := ValidateField(form, field, mode, role); !result.Valid {
			errors[field] = result.Message
		}
	}

	return len(errors) == 0, errors
}
