package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var ErrNotFound = gorm.ErrRecordNotFound

func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKeyError matches gorm's translated error and the raw driver messages
// for dialects whose errors are not translated.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
