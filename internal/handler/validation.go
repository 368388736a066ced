package handler

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs custom binding rules on gin's validator
// engine. "hhmm" accepts zero-padded 24h wall-clock strings.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 5 {
			return false
		}
		_, err := time.Parse("15:04", s)
		return err == nil
	})
}
