package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError points at a bad config file, key or position.
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: %s %s", e.FilePath, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
}

var validate = newValidator()

// newValidator reports fields by their config key and knows the
// "placeholder" tag: placeholder=version requires "{version}" in the value.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("placeholder", func(fl validator.FieldLevel) bool {
		return strings.Contains(fl.Field().String(), "{"+fl.Param()+"}")
	})
	return v
}

// ValidateYAMLSyntax checks a YAML config file. A missing file is valid.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	return ValidateYAMLSyntaxFromBytes(data, filePath)
}

// ValidateYAMLSyntaxFromBytes checks that data is YAML whose top level is a
// mapping of known config keys. Blank input is valid.
func ValidateYAMLSyntaxFromBytes(data []byte, filePath string) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		line, column := yamlErrorPosition(err)
		return &ValidationError{FilePath: filePath, Line: line, Column: column, Message: yamlErrorMessage(err)}
	}
	if len(doc.Content) == 0 {
		return nil
	}

	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return &ValidationError{
			FilePath: filePath,
			Line:     top.Line,
			Column:   top.Column,
			Message:  "top level must be a mapping of config keys",
		}
	}
	known := Keys()
	for i := 0; i < len(top.Content); i += 2 {
		k := top.Content[i]
		if !slices.Contains(known, k.Value) {
			return &ValidationError{
				FilePath: filePath,
				Line:     k.Line,
				Column:   k.Column,
				Message:  fmt.Sprintf("unknown key %q (known: %s)", k.Value, strings.Join(known, ", ")),
			}
		}
	}
	return nil
}

// ValidateConfigValues checks the merged configuration and reports the
// first offending key.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	fe := fieldErrs[0]
	return &ValidationError{FilePath: filePath, Field: fe.Field(), Message: describeFieldError(fe)}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of %s (got %q)", strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "placeholder":
		return fmt.Sprintf("must contain the {%s} placeholder", fe.Param())
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

var yamlPositionRE = regexp.MustCompile(`line (\d+)(?:: column (\d+))?`)

// yamlErrorPosition extracts the position yaml.v3 embeds in its messages,
// e.g. "yaml: line 5: could not find expected ':'".
func yamlErrorPosition(err error) (line, column int) {
	m := yamlPositionRE.FindStringSubmatch(err.Error())
	if m == nil {
		return 0, 0
	}
	line, _ = strconv.Atoi(m[1])
	column = 1
	if m[2] != "" {
		column, _ = strconv.Atoi(m[2])
	}
	return line, column
}

func yamlErrorMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	if loc := yamlPositionRE.FindStringIndex(msg); loc != nil && loc[0] == 0 {
		msg = strings.TrimPrefix(msg[loc[1]:], ": ")
	}
	return msg
}
