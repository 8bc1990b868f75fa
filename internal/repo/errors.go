package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"resume-api/internal/domain"
)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 未开启 TranslateError 的连接仍按报错文本兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}

const (
	msgUsernameTaken = "Username is already taken."
	msgEmailTaken    = "Email address is already in use."
)

func duplicateUser(field string) error {
	msg := msgUsernameTaken
	if field == "email" {
		msg = msgEmailTaken
	}
	return domain.NewValidationError(domain.CodeDuplicateField).Add(field, msg)
}
