package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-erp-admin/internal/repository"
	"go-erp-admin/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("resource not available")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInsufficientStock  = errors.New("insufficient stock remaining")
	ErrInvalidOperation   = errors.New("operation type must be 'in' or 'out'")
	ErrNoSuchItem         = errors.New("no such item in stock")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError reports a rejected input field. errors.Is matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// validate runs the struct tags and reports the first failure.
func validate(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	msg := fmt.Sprintf("failed on '%s'", first.Tag)
	if first.Value != "" {
		msg = fmt.Sprintf("failed on '%s=%s'", first.Tag, first.Value)
	}
	return invalid(snake(first.FailedField), msg)
}

// lookup turns a missing row into ErrNotFound and wraps anything else.
func lookup(err error, what string) error {
	if err == nil {
		return nil
	}
	if repository.IsNotFound(err) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", what, err)
}

// reference is lookup for rows named by a request field: a missing row is a bad input.
func reference(err error, field string) error {
	if repository.IsNotFound(err) {
		return invalid(field, "does not exist")
	}
	return fmt.Errorf("resolve %s: %w", field, err)
}

// persist maps unique-index violations onto field errors.
func persist(err error, field, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return invalid(field, "already exists")
	}
	return fmt.Errorf("%s: %w", what, err)
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, invalid(field, "must be a valid id")
	}
	return id, nil
}

func parseOptionalID(field, raw string) (*uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

const dateLayout = "2006-01-02"

func parseDate(field, raw string) (datatypes.Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return datatypes.Date{}, invalid(field, "must be a date (YYYY-MM-DD)")
	}
	return datatypes.Date(t), nil
}

// parseDateOr falls back to def when raw is blank.
func parseDateOr(field, raw string, def time.Time) (datatypes.Date, error) {
	if strings.TrimSpace(raw) == "" {
		y, m, d := def.Date()
		return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)), nil
	}
	return parseDate(field, raw)
}

// ParseDateFilter parses an optional YYYY-MM-DD query value.
func ParseDateFilter(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := parseDate(field, raw)
	if err != nil {
		return nil, err
	}
	t := time.Time(d)
	return &t, nil
}

// codeTaken interprets the error of a lookup by unique code: a hit means the
// code is taken, not-found means it is free, and anything else is a failure.
func codeTaken(err error) error {
	switch {
	case err == nil:
		return invalid("code", "already exists")
	case repository.IsNotFound(err):
		return nil
	}
	return fmt.Errorf("check code: %w", err)
}

// optionalAmount checks an optional price: non-negative with at most two decimals.
func optionalAmount(field string, d decimal.NullDecimal) error {
	if !d.Valid {
		return nil
	}
	if d.Decimal.IsNegative() {
		return invalid(field, "must not be negative")
	}
	if !validator.HasScale(d.Decimal, 2) {
		return invalid(field, "failed on 'scale=2'")
	}
	return nil
}

// snake converts a Go field name such as CategoryID to category_id.
func snake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Publisher receives domain events after they are committed.
type Publisher interface {
	Publish(v interface{})
}

func publish(p Publisher, v interface{}) {
	if p != nil {
		p.Publish(v)
	}
}
