package providers

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/shared"
)

func validateInput(in *Input) error {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.TaxID = strings.ToUpper(strings.TrimSpace(in.TaxID))
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Code == "" {
		return fmt.Errorf("%w: code", shared.ErrRequiredField)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: name", shared.ErrRequiredField)
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return fmt.Errorf("%w: invalid email", shared.ErrValidation)
		}
	}
	return nil
}
