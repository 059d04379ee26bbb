// Package validator provides composable, translatable validation rules.
//
//	err := validator.Apply(
//		validator.ValidEmail("email", rec.Email),
//		validator.Required("title", rec.Title),
//		validator.MinNum("time", rec.Time, 0),
//	)
package validator
