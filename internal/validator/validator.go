package validator

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	uuid "github.com/satori/go.uuid"
)

const (
	MaxTitleLen       = 255
	MaxDescriptionLen = 2000
	MaxTagLen         = 50
	MinPasswordLen    = 8
	MaxPasswordLen    = 72
	MaxNameLen        = 100
)

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func IsValidTitle(title string) bool {
	trimmed := strings.TrimSpace(title)
	return trimmed != "" && utf8.RuneCountInString(trimmed) <= MaxTitleLen
}

func IsValidDescription(desc *string) bool {
	return desc == nil || utf8.RuneCountInString(*desc) <= MaxDescriptionLen
}

func IsValidTagName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && utf8.RuneCountInString(trimmed) <= MaxTagLen
}

func IsValidTagNames(names []string) bool {
	for _, n := range names {
		if !IsValidTagName(n) {
			return false
		}
	}
	return true
}

func IsValidColor(color *string) bool {
	return color == nil || colorRe.MatchString(*color)
}

func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// IsValidPassword caps the length at the bcrypt input limit.
func IsValidPassword(password string) bool {
	return len(password) >= MinPasswordLen && len(password) <= MaxPasswordLen
}

func IsValidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && utf8.RuneCountInString(trimmed) <= MaxNameLen
}

// IsValidID reports whether id is a canonical uuid, the form every stored id takes.
func IsValidID(id string) bool {
	_, err := uuid.FromString(id)
	return err == nil && len(id) == 36
}
