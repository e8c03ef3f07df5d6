package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
)

// LoginIdentifierKind tells which user field a login identifier refers to.
type LoginIdentifierKind string

const (
	ByUsername LoginIdentifierKind = "username"
	ByEmail    LoginIdentifierKind = "email"
	ByMobile   LoginIdentifierKind = "mobile"
)

// LoginIdentifier is exactly one of username, email or mobile.
// The zero value is invalid; build it with NewLoginIdentifier.
type LoginIdentifier struct {
	kind  LoginIdentifierKind
	value string
}

// NewLoginIdentifier returns an identifier for the single non-empty argument.
// Zero or more than one populated field is a validation error.
func NewLoginIdentifier(username, email, mobile string) (LoginIdentifier, error) {
	candidates := []LoginIdentifier{
		{kind: ByUsername, value: strings.TrimSpace(username)},
		{kind: ByEmail, value: strings.TrimSpace(email)},
		{kind: ByMobile, value: strings.TrimSpace(mobile)},
	}

	var picked []LoginIdentifier
	for _, c := range candidates {
		if c.value != "" {
			picked = append(picked, c)
		}
	}

	switch len(picked) {
	case 0:
		return LoginIdentifier{}, fmt.Errorf("%w: one of username, email or mobile is required", apperrors.ErrValidation)
	case 1:
		return picked[0], nil
	default:
		return LoginIdentifier{}, fmt.Errorf("%w: provide only one of username, email or mobile", apperrors.ErrValidation)
	}
}

func (l LoginIdentifier) Kind() LoginIdentifierKind {
	return l.kind
}

func (l LoginIdentifier) Value() string {
	return l.value
}

// IsZero reports whether the identifier was not produced by NewLoginIdentifier.
func (l LoginIdentifier) IsZero() bool {
	return l.kind == "" || l.value == ""
}

func (l LoginIdentifier) String() string {
	return string(l.kind) + ":" + l.value
}
