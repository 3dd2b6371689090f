package warehouses

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
	if in.Name == "" {
		return fmt.Errorf("%w: name", shared.ErrRequiredField)
	}
	return nil
}
