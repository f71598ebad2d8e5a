package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// Field limits matching database schema constraints.
const (
	MaxLocationLen  = 100 // events.city VARCHAR(100)
	MaxUserAgentLen = 512
	MinYear         = 1970
	MaxYear         = 9999
)

var (
	// locationRe matches country codes, state and city names.
	locationRe = regexp.MustCompile(`^[\p{L} .'-]+$`)
	// emailRe is the loose shape check used to tell an email identifier from a user id.
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateStruct runs the validate tags of v and returns a message for the
// first failing field, or "".
func ValidateStruct(v any) string {
	err := validate.Struct(v)
	if err == nil {
		return ""
	}
	return ValidationMessage(err)
}

// ValidationMessage renders a validator error for API clients.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "ip":
		return fmt.Sprintf("%s must be a valid IP address", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

// ParseID parses a positive numeric path parameter.
func ParseID(raw, name string) (int64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, name + " is required"
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, name + " must be a positive integer"
	}
	return id, ""
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight.
func ParseDate(raw, name string) (time.Time, string) {
	d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, name + " must be a date in YYYY-MM-DD format"
	}
	return d, ""
}

// ParseDateRange parses an inclusive start/end pair.
func ParseDateRange(rawStart, rawEnd string) (start, end time.Time, errMsg string) {
	if start, errMsg = ParseDate(rawStart, "start"); errMsg != "" {
		return
	}
	if end, errMsg = ParseDate(rawEnd, "end"); errMsg != "" {
		return
	}
	if end.Before(start) {
		errMsg = "end must not be before start"
	}
	return
}

// ParseYear parses a four-digit year.
func ParseYear(raw string) (int, string) {
	raw = strings.TrimSpace(raw)
	y, err := strconv.Atoi(raw)
	if err != nil || len(raw) != 4 || y < MinYear || y > MaxYear {
		return 0, "year must be a four-digit year"
	}
	return y, ""
}

// ParseLimit parses an optional non-negative query limit. Empty means 0.
func ParseLimit(raw, name string) (int, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ""
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, name + " must be a non-negative integer"
	}
	return n, ""
}

// ValidateLocation checks a country code, state or city path value.
func ValidateLocation(raw, name string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", name + " is required"
	}
	if len(raw) > MaxLocationLen {
		return "", fmt.Sprintf("%s must be at most %d characters", name, MaxLocationLen)
	}
	if !locationRe.MatchString(raw) {
		return "", name + " contains invalid characters"
	}
	return raw, ""
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidateUserAgent trims and truncates a user agent before sniffing.
func ValidateUserAgent(ua string) string {
	ua = strings.TrimSpace(ua)
	if len(ua) > MaxUserAgentLen {
		ua = ua[:MaxUserAgentLen]
	}
	return ua
}
