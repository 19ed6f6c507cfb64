package validation

import (
	"errors"
	"fmt"
	"strings"

	"desguace/internal/logger"
	"desguace/internal/models"
)

var ErrNotPublishable = errors.New("part cannot be published")

type Validator struct {
	logger *logger.Logger
}

func New(log *logger.Logger) *Validator {
	return &Validator{logger: log}
}

// ValidatePart checks that a part carries what a shop listing needs. All
// problems are reported in one error wrapping ErrNotPublishable.
func (v *Validator) ValidatePart(part *models.Part) error {
	var problems []string

	if strings.TrimSpace(part.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !part.Price.IsPositive() {
		problems = append(problems, "price must be greater than zero")
	}
	if part.Stock < 0 {
		problems = append(problems, "stock cannot be negative")
	}

	if len(problems) > 0 {
		v.logger.Debug("Part %s failed validation: %s", part.ID, strings.Join(problems, "; "))
		return fmt.Errorf("%w: %s", ErrNotPublishable, strings.Join(problems, "; "))
	}
	return nil
}
