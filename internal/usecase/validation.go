package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	// Prefix match: anything after the first domain dot is accepted.
	emailPattern    = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)
	linkedInPattern = regexp.MustCompile(`^https://(www\.)?linkedin\.com/in/[a-zA-Z0-9_-]+/?$`)
)

const (
	maxShortField = 160
	maxURLField   = 255
)

// ValidateCreateLeadInput applies the add-lead form rules. Email is required on
// this path; leads created directly through the repository may omit it.
func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errors []ValidationError

	name := strings.TrimSpace(input.Name)
	if name == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if !strings.Contains(name, " ") {
		errors = append(errors, ValidationError{"name", "must include first and last name (with a space)"})
	} else if utf8.RuneCountInString(name) > maxShortField {
		errors = append(errors, ValidationError{"name", fmt.Sprintf("must not exceed %d characters", maxShortField)})
	}

	email := input.Email
	if strings.TrimSpace(email) == "" || !emailPattern.MatchString(email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	} else if utf8.RuneCountInString(email) > maxShortField {
		errors = append(errors, ValidationError{"email", fmt.Sprintf("must not exceed %d characters", maxShortField)})
	}

	if website := input.Website; strings.TrimSpace(website) != "" {
		if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
			errors = append(errors, ValidationError{"website", "must start with http:// or https://"})
		} else if utf8.RuneCountInString(website) > maxURLField {
			errors = append(errors, ValidationError{"website", fmt.Sprintf("must not exceed %d characters", maxURLField)})
		}
	}

	if linkedin := input.LinkedIn; strings.TrimSpace(linkedin) != "" {
		if !linkedInPattern.MatchString(linkedin) {
			errors = append(errors, ValidationError{"linkedin", "must be a profile link like https://linkedin.com/in/<username>"})
		}
	}

	for _, f := range []struct{ field, value string }{
		{"company", input.Company},
		{"title", input.Title},
	} {
		if utf8.RuneCountInString(f.value) > maxShortField {
			errors = append(errors, ValidationError{f.field, fmt.Sprintf("must not exceed %d characters", maxShortField)})
		}
	}

	return errors
}

func validationFailed(errs []ValidationError) *DomainError {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(msgs, ", "),
		Fields:  errs,
	}
}
