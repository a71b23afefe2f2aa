package common

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const maxLabIDLength = 100

var (
	ErrBlankLabID   = errors.New("lab id is required")
	ErrLabIDTooLong = errors.New("lab id must be at most 100 characters")
)

// NormalizeLabID trims the lab id and rejects blank or oversized values.
// Any other text is accepted; the lab id is a display label, not an account.
func NormalizeLabID(labID string) (string, error) {
	labID = strings.TrimSpace(labID)
	if labID == "" {
		return "", ErrBlankLabID
	}
	if utf8.RuneCountInString(labID) > maxLabIDLength {
		return "", ErrLabIDTooLong
	}
	return labID, nil
}
