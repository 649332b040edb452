package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DefaultTopK is applied when a request omits top_k.
const DefaultTopK = 3

type Validater interface {
	Validate() map[string]string
}

// QueryParams is the request body shared by /retrieve and /query.
type QueryParams struct {
	Question string `json:"question" validate:"required,min=1"`
	TopK     int    `json:"top_k" validate:"omitempty,gte=1,lte=10"`
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

func (params *QueryParams) Validate() map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	if params.TopK == 0 {
		params.TopK = DefaultTopK
	}
	return nil
}
