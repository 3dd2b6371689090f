package units

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
	if len(in.Code) > 20 {
		return fmt.Errorf("%w: code exceeds 20 characters", shared.ErrValidation)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: name", shared.ErrRequiredField)
	}
	return nil
}
