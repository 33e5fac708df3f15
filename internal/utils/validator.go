package utils

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	Validate      *validator.Validate
	validatorOnce sync.Once
)

func InitValidator() {
	validatorOnce.Do(func() {
		Validate = validator.New()
	})
}
