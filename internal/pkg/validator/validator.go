package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/futig/scrapbox-rag/internal/entity"
	playground "github.com/go-playground/validator/v10"
)

// Validator validates API requests
type Validator struct {
	validate *playground.Validate
}

func New() *Validator {
	v := playground.New(playground.WithRequiredStructEnabled())
	// Report JSON field names instead of Go ones.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

func (v *Validator) ValidateSearch(req *entity.SearchRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return entity.ErrEmptyQuery
	}
	return v.check(req)
}

func (v *Validator) ValidateIndex(req *entity.IndexRequest) error {
	return v.check(req)
}

func (v *Validator) ValidateGenerate(req *entity.GenerateRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return entity.ErrEmptyQuery
	}
	return v.check(req)
}

// check runs the struct tags and reports the first failing field.
func (v *Validator) check(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}

	fe := fieldErrs[0]
	field := strings.TrimPrefix(fe.Namespace(), typeName(req)+".")
	if fe.Tag() == "required" {
		return fmt.Errorf("%w: %s", entity.ErrMissingField, field)
	}
	return fmt.Errorf("%w: %s must satisfy %s%s", entity.ErrInvalidParameter, field, fe.Tag(), param(fe.Param()))
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func param(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}
