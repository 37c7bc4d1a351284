package course

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

var (
	// custom validation tags & texts
	weekdayTag  = "weekday"
	weekdayText = "must be a valid weekday name"

	courseLevelTag  = "courselevel"
	courseLevelText = "must be one of: beginner, intermediate, advanced"

	weekdays = map[string]struct{}{
		"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
		"friday": {}, "saturday": {}, "sunday": {},
	}
)

func init() {
	InitValidators(core.Validate, core.Translator)
}

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(weekdayTag, weekdayValidation)
	core.RegisterCustomTranslation(validate, translator, weekdayTag, weekdayText)

	_ = validate.RegisterValidation(courseLevelTag, courseLevelValidation)
	core.RegisterCustomTranslation(validate, translator, courseLevelTag, courseLevelText)
}

func weekdayValidation(fl validator.FieldLevel) bool {
	_, ok := weekdays[strings.ToLower(fl.Field().String())]
	return ok
}

func courseLevelValidation(fl validator.FieldLevel) bool {
	lvl := strings.ToLower(fl.Field().String())
	for _, l := range Levels {
		if lvl == l {
			return true
		}
	}
	return false
}
