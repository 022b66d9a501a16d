package settings

import (
	"fmt"
	"strconv"

	"github.com/gorilla/css/scanner"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/domain"
)

const maxCSSValueLength = 64

// cssOperators are the single characters allowed between tokens of a length value,
// enough for calc() expressions and multi-value shorthands.
var cssOperators = map[string]bool{")": true, ",": true, "+": true, "-": true, "*": true, "/": true}

// ValidateField rejects a value that could break out of the scaffold of field.
func ValidateField(field, value string) error {
	if value == "" {
		return nil
	}
	if field == FieldMaxImages {
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || strconv.Itoa(n) != value {
			return fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrInvalidSettings, field, value)
		}
		return nil
	}
	return validateCSSValue(field, value)
}

func validateCSSValue(field, value string) error {
	if value == "" {
		return nil
	}
	if len(value) > maxCSSValueLength {
		return fmt.Errorf("%w: %s exceeds %d characters", domain.ErrInvalidSettings, field, maxCSSValueLength)
	}

	s := scanner.New(value)
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return nil
		case scanner.TokenIdent, scanner.TokenNumber, scanner.TokenPercentage,
			scanner.TokenDimension, scanner.TokenS, scanner.TokenFunction:
			continue
		case scanner.TokenChar:
			if cssOperators[tok.Value] {
				continue
			}
		}
		return fmt.Errorf("%w: %s contains unsupported token %q", domain.ErrInvalidSettings, field, tok.Value)
	}
}
