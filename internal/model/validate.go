package model

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.Wrapf(ErrInvalidInput, "%s failed on %q", fe.Field(), fe.Tag())
		}

		return errors.Wrap(ErrInvalidInput, err.Error())
	}

	return nil
}
