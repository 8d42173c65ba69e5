package profile

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

//go:embed profile.schema.json
var schemaJSON string

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaLoadErr  error
)

var datePattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{4}$`)

const (
	tagDate          = "mmyyyy"
	tagCurrentNoEnd  = "current_no_end"
	rootField        = "(root)"
	validatorRootTag = "Profile."
)

var ruleMessages = map[string]string{
	tagDate:         "must be a date in MM/YYYY format",
	tagCurrentNoEnd: "must be empty when is_current is true",
}

// Validator turns candidate JSON into a normalized Profile.
type Validator struct {
	logger   *zap.Logger
	validate *validator.Validate
}

var defaultValidator = NewValidator(nil)

// NewValidator creates a validator that reports ignored unknown keys to the logger.
func NewValidator(logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation(tagDate, func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || IsDate(value)
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		exp, ok := sl.Current().Interface().(Experience)
		if !ok {
			return
		}
		if exp.IsCurrent && exp.EndDate != "" {
			sl.ReportError(exp.EndDate, "end_date", "EndDate", tagCurrentNoEnd, "")
		}
	}, Experience{})

	return &Validator{logger: logger, validate: v}
}

// Validate parses candidate JSON with the package default validator.
func Validate(candidate []byte) (*Profile, error) {
	return defaultValidator.Validate(candidate)
}

// IsDate reports whether value is a well-formed MM/YYYY date.
func IsDate(value string) bool {
	return datePattern.MatchString(value)
}

// Validate checks the candidate's shape, decodes it and enforces the field rules.
// Unknown keys are logged and ignored. Every failure is a *SchemaError.
func (v *Validator) Validate(candidate []byte) (*Profile, error) {
	var doc any
	if err := json.Unmarshal(candidate, &doc); err != nil {
		return nil, &SchemaError{
			Fields: []FieldError{{Field: rootField, Message: "is not valid JSON"}},
			Cause:  err,
		}
	}

	if err := checkStructure(doc); err != nil {
		return nil, err
	}

	var p Profile
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:  "json",
		Metadata: &md,
		Result:   &p,
	})
	if err != nil {
		return nil, fmt.Errorf("create profile decoder: %w", err)
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, &SchemaError{Cause: err}
	}

	for _, key := range md.Unused {
		v.logger.Warn("ignoring unknown profile field", zap.String("field", key))
	}

	p.Normalize()

	if err := v.validate.Struct(&p); err != nil {
		var ruleErrs validator.ValidationErrors
		if !errors.As(err, &ruleErrs) {
			return nil, &SchemaError{Cause: err}
		}

		schemaErr := &SchemaError{Cause: err}
		for _, fe := range ruleErrs {
			message, ok := ruleMessages[fe.Tag()]
			if !ok {
				message = fmt.Sprintf("failed %q rule", fe.Tag())
			}
			schemaErr.Fields = append(schemaErr.Fields, FieldError{
				Field:   strings.TrimPrefix(fe.Namespace(), validatorRootTag),
				Message: message,
			})
		}
		return nil, schemaErr
	}

	return &p, nil
}

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaLoadErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	})
	return compiledSchema, schemaLoadErr
}

func checkStructure(doc any) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("load profile schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &SchemaError{Cause: err}
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Fields: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		schemaErr.Fields = append(schemaErr.Fields, FieldError{
			Field:   fieldPath(desc.Field()),
			Message: desc.Description(),
		})
	}
	return schemaErr
}

// fieldPath rewrites gojsonschema's dotted paths (experience.0.start_date)
// into the bracket form used everywhere else (experience[0].start_date).
func fieldPath(field string) string {
	if field == "" || field == rootField {
		return rootField
	}

	var sb strings.Builder
	for i, segment := range strings.Split(field, ".") {
		if _, err := strconv.Atoi(segment); err == nil {
			sb.WriteString("[" + segment + "]")
			continue
		}
		if i > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(segment)
	}
	return sb.String()
}
