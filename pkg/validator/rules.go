package validator

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Required fails on an empty or whitespace-only string.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{
			Field:             field,
			Message:           "field is required",
			TranslationKey:    "validation.required",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// MinUTF16Length fails when value is shorter than min UTF-16 code units,
// the unit browsers use for String.length and minlength. A character outside
// the Basic Multilingual Plane counts as two.
func MinUTF16Length(field, value string, min int) Rule {
	return Rule{
		Check: func() bool { return len(utf16.Encode([]rune(value))) >= min },
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be at least %d characters long", min),
			TranslationKey:    "validation.min_length",
			TranslationValues: map[string]any{"field": field, "min": min},
		},
	}
}

// MaxChars fails when value has more than max characters (runes, not bytes).
func MaxChars(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be at most %d characters long", max),
			TranslationKey:    "validation.max_length",
			TranslationValues: map[string]any{"field": field, "max": max},
		},
	}
}

// Matches fails unless value equals other exactly.
func Matches(field, value, other string) Rule {
	return Rule{
		Check: func() bool { return value == other },
		Error: ValidationError{
			Field:             field,
			Message:           "does not match",
			TranslationKey:    "validation.mismatch",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// ValidEmail accepts a bare RFC 5322 address whose domain has a dot.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != strings.TrimSpace(value) {
				return false
			}
			local, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || local == "" {
				return false
			}
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}
			return strings.Contains(domain, ".")
		},
		Error: ValidationError{
			Field:             field,
			Message:           "must be a valid email address",
			TranslationKey:    "validation.email",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

func MinNum[T Numeric](field string, value, min T) Rule {
	return Rule{
		Check: func() bool { return value >= min },
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be at least %v", min),
			TranslationKey:    "validation.min",
			TranslationValues: map[string]any{"field": field, "min": min},
		},
	}
}

func MaxNum[T Numeric](field string, value, max T) Rule {
	return Rule{
		Check: func() bool { return value <= max },
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be at most %v", max),
			TranslationKey:    "validation.max",
			TranslationValues: map[string]any{"field": field, "max": max},
		},
	}
}
