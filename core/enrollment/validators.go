package enrollment

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

var (
	// custom validation tags & texts
	attStatusTag  = "attstatus"
	attStatusText = "must be one of: present, absent, late"
)

func init() {
	InitValidators(core.Validate, core.Translator)
}

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(attStatusTag, attStatusValidation)
	core.RegisterCustomTranslation(validate, translator, attStatusTag, attStatusText)
}

func attStatusValidation(fl validator.FieldLevel) bool {
	return AttendanceStatus(fl.Field().String()).Valid()
}
