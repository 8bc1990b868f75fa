package domain

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	domainValidator = newValidator()

	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()

	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(educationStructValidation, Education{})
	v.RegisterStructValidation(experienceStructValidation, Experience{})
	v.RegisterStructValidation(certificateStructValidation, Certificate{})
	return v
}

func educationStructValidation(sl validator.StructLevel) {
	e := sl.Current().Interface().(Education)
	validatePeriod(sl, e.StartDate, e.EndDate)
}

func experienceStructValidation(sl validator.StructLevel) {
	e := sl.Current().Interface().(Experience)
	validatePeriod(sl, e.StartDate, e.EndDate)
}

func certificateStructValidation(sl validator.StructLevel) {
	c := sl.Current().Interface().(Certificate)
	if c.IssueDate.IsZero() {
		sl.ReportError(c.IssueDate, "issue_date", "IssueDate", "required", "")
	}
}

func validatePeriod(sl validator.StructLevel, start Date, end *Date) {
	if start.IsZero() {
		sl.ReportError(start, "start_date", "StartDate", "required", "")
		return
	}
	if end != nil && !end.IsZero() && end.Before(start.Time) {
		sl.ReportError(*end, "end_date", "EndDate", "after_start", "")
	}
}

// Validate 按 validate tag 与结构体规则校验，失败返回 *ValidationError
func Validate(v any) error {
	err := domainValidator.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := NewValidationError(CodeValidation)
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		if isText {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if isText {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "numeric":
		return "Enter a valid phone number."
	case "after_start":
		return "Start date must be before the end date."
	}
	return "Invalid value."
}

// CleanText 短文本去掉全部标签
func CleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// CleanRichText 长文本保留安全格式，去掉脚本与事件属性
func CleanRichText(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}
