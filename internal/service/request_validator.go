package service

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/akashjainn/propsage-sub000/internal/models"
	"github.com/akashjainn/propsage-sub000/internal/pricing"
)

var (
	requestValidator     *validator.Validate
	requestValidatorOnce sync.Once
)

func getValidator() *validator.Validate {
	requestValidatorOnce.Do(func() {
		requestValidator = validator.New()
	})
	return requestValidator
}

// ValidateRequest checks struct tags and the constraints tags cannot express.
// Every problem is reported in one error wrapping pricing.ErrInvalidInput.
func ValidateRequest(req *models.MarketRequest) error {
	if req == nil {
		return fmt.Errorf("%w: nil market request", pricing.ErrInvalidInput)
	}

	var problems []string
	if err := getValidator().Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range validationErrors {
				problems = append(problems, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	if len(req.Quotes) == 0 {
		problems = append(problems, models.ErrNoQuotes.Error())
	}
	for i, q := range req.Quotes {
		if math.IsNaN(q.Line) || math.IsInf(q.Line, 0) {
			problems = append(problems, fmt.Sprintf("quote %d (%s) has non-finite line", i, q.Book))
		}
	}

	if req.LineRange != nil {
		if err := req.LineRange.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if req.Prior != nil {
		if math.IsNaN(req.Prior.Mu) || math.IsNaN(req.Prior.Sigma) {
			problems = append(problems, "prior has NaN parameters")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: market %s: %s", pricing.ErrInvalidInput, req.Key(), strings.Join(problems, "; "))
	}
	return nil
}
