// Package validation provides input validation for configuration structs.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    Address string `validate:"required,url"`
//	    Shards  int    `validate:"min=1"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("index", cfg.Index).IndexName("index", cfg.Index)
//	if appErr := v.Validate(); appErr != nil {
//	    return appErr
//	}
package validation
