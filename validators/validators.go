package validators

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"holoholo/models"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[\p{L}\d._\-]+$`)
)

const (
	MinPasswordLen = 6
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

// MaxPrice fits products.price NUMERIC(10,2).
var MaxPrice = decimal.RequireFromString("99999999.99")

// FieldError names the offending input field.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Msg
}

func fieldErr(field, format string, args ...any) error {
	return &FieldError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

func ValidateString(field, val string, minLen, maxLen int) error {
	length := utf8.RuneCountInString(val)
	if length < minLen || length > maxLen {
		return fieldErr(field, "must be between %d and %d characters", minLen, maxLen)
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) || len(email) > 120 {
		return fieldErr("email", "invalid email format")
	}
	return nil
}

func ValidateUsername(username string) error {
	if err := ValidateString("username", username, 3, 80); err != nil {
		return err
	}
	if !usernameRegex.MatchString(username) {
		return fieldErr("username", "may contain only letters, digits, '.', '_' and '-'")
	}
	return nil
}

func ValidatePassword(field, password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return fieldErr(field, "must be at least %d characters", MinPasswordLen)
	}
	if len(password) > MaxPasswordBytes {
		return fieldErr(field, "must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}

func ValidateRegistration(c *models.Credentials) error {
	if err := ValidateUsername(c.Username); err != nil {
		return err
	}
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}
	return ValidatePassword("password", c.Password)
}

func ValidateProduct(p *models.ProductInput) error {
	if err := ValidateString("name", strings.TrimSpace(p.Name), 1, 200); err != nil {
		return err
	}
	if p.Price.IsNegative() {
		return fieldErr("price", "must not be negative")
	}
	if p.Price.GreaterThan(MaxPrice) {
		return fieldErr("price", "must be at most %s", MaxPrice.StringFixed(2))
	}
	if !p.Price.Equal(p.Price.Truncate(2)) {
		return fieldErr("price", "must have at most 2 decimal places")
	}
	if p.Stock < 0 {
		return fieldErr("stock", "must not be negative")
	}
	if p.Stock > math.MaxInt32 {
		return fieldErr("stock", "must be at most %d", math.MaxInt32)
	}
	if p.CategoryID <= 0 {
		return fieldErr("category_id", "is required")
	}
	if p.ImageURL != nil && utf8.RuneCountInString(*p.ImageURL) > 200 {
		return fieldErr("image_url", "must be at most 200 characters")
	}
	return nil
}

func ValidateCategory(c *models.Category) error {
	return ValidateString("name", strings.TrimSpace(c.Name), 1, 100)
}

func ValidateShippingAddress(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return fieldErr("shipping_address", "is required")
	}
	return nil
}
