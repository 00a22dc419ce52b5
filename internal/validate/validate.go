// Package validate checks interactively entered product fields before a new
// record is built. Imported records go through package normalize instead.
package validate

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/sharebox/internal/models"
)

const (
	MinTitleLen       = 2
	MinDescriptionLen = 5
)

var (
	ErrTitleRequired       = errors.New("title required")
	ErrTitleTooShort       = errors.New("title too short")
	ErrDescriptionRequired = errors.New("description required")
	ErrDescriptionTooShort = errors.New("description too short")
	ErrPriceNotPositive    = errors.New("price must be positive")
	ErrCategoryRequired    = errors.New("category required")
)

// ProductInput returns the first failing rule as one of the sentinel errors
// above, or nil. Rules are checked in a fixed order.
func ProductInput(in models.ProductInput) error {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	switch {
	case title == "":
		return ErrTitleRequired
	case utf8.RuneCountInString(title) < MinTitleLen:
		return ErrTitleTooShort
	case description == "":
		return ErrDescriptionRequired
	case utf8.RuneCountInString(description) < MinDescriptionLen:
		return ErrDescriptionTooShort
	}

	if _, err := ParsePrice(in.Price); err != nil {
		return err
	}

	if strings.TrimSpace(in.Category) == "" {
		return ErrCategoryRequired
	}
	return nil
}

// ParsePrice parses a typed price that must be a finite number above zero.
func ParsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, ErrPriceNotPositive
	}
	return price, nil
}
