package service

import (
	"strings"
	"unicode/utf8"
)

// Field limits.
const (
	maxEmailLength = 320
	maxNameLength  = 200
	maxTitleLength = 300
	maxTagLength   = 50
	maxTags        = 20
)

func validateEmail(email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if len(email) > maxEmailLength {
		return ErrFieldTooLong
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrFieldTooLong
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return ErrFieldTooLong
	}
	return nil
}

// normalizeTags trims each tag, drops empty ones and duplicates, and keeps
// the first-seen order. The result is never nil.
func normalizeTags(tags []string) ([]string, error) {
	result := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		if utf8.RuneCountInString(tag) > maxTagLength {
			return nil, ErrFieldTooLong
		}
		seen[tag] = true
		result = append(result, tag)
	}

	if len(result) > maxTags {
		return nil, ErrFieldTooLong
	}
	return result, nil
}

// normalizeBio trims the bio; blank becomes nil.
func normalizeBio(bio *string) *string {
	if bio == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*bio)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
