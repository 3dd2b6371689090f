package products

import (
	"fmt"
	"strings"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/shared"
)

func validateInput(in *Input) error {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" {
		return fmt.Errorf("%w: code", shared.ErrRequiredField)
	}
	if len(in.Code) > 40 {
		return fmt.Errorf("%w: code exceeds 40 characters", shared.ErrValidation)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: name", shared.ErrRequiredField)
	}
	if in.UnitID <= 0 {
		return fmt.Errorf("%w: unit_id", shared.ErrRequiredField)
	}
	if in.CategoryID != nil && *in.CategoryID <= 0 {
		return fmt.Errorf("%w: category_id must be positive", shared.ErrValidation)
	}
	if in.MinStock < 0 {
		return fmt.Errorf("%w: min_stock cannot be negative", shared.ErrValidation)
	}
	return nil
}
