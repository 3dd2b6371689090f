package areas

import (
	"fmt"
	"strings"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/shared"
)

func validateAreaInput(in *AreaInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: name", shared.ErrRequiredField)
	}
	return nil
}

func validateSubareaInput(in *SubareaInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.AreaID <= 0 {
		return fmt.Errorf("%w: area_id", shared.ErrRequiredField)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: name", shared.ErrRequiredField)
	}
	return nil
}
