package service

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/limbo/atomic/pkg/entity"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("habit_rating", func(fl validator.FieldLevel) bool {
			switch entity.Rating(fl.Field().String()) {
			case entity.RatingPositive, entity.RatingNegative, entity.RatingNeutral:
				return true
			}
			return false
		})
		// Review ratings only distinguish kept-up from struggled.
		validate.RegisterValidation("review_rating", func(fl validator.FieldLevel) bool {
			switch entity.Rating(fl.Field().String()) {
			case entity.RatingNeutral, entity.RatingNegative:
				return true
			}
			return false
		})
		validate.RegisterValidation("time_of_day", func(fl validator.FieldLevel) bool {
			switch entity.TimeOfDay(fl.Field().String()) {
			case entity.TimeMorning, entity.TimeAfternoon, entity.TimeEvening, entity.TimeAnytime:
				return true
			}
			return false
		})
		validate.RegisterValidation("habit_frequency", func(fl validator.FieldLevel) bool {
			switch entity.Frequency(fl.Field().String()) {
			case entity.FrequencyDaily, entity.FrequencyWeekdays, entity.FrequencyWeekends, entity.FrequencyCustom:
				return true
			}
			return false
		})
		validate.RegisterValidation("review_friction", func(fl validator.FieldLevel) bool {
			return IsKnownFriction(fl.Field().String())
		})
	})
}
