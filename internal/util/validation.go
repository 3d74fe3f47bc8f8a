package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// FieldErrors maps a form field name to its messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// RegisterValidators installs the custom tags used by the forms on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return v.RegisterValidation("notblank", validators.NotBlank)
}

// TrimFormFields strips surrounding whitespace from the named POST fields before binding.
func TrimFormFields(c *gin.Context, names ...string) {
	if err := c.Request.ParseForm(); err != nil {
		return
	}
	for _, name := range names {
		if v, ok := c.Request.PostForm[name]; ok && len(v) > 0 {
			trimmed := strings.TrimSpace(v[0])
			c.Request.PostForm.Set(name, trimmed)
			c.Request.Form.Set(name, trimmed)
		}
	}
}

// BindForm binds the POST body into form and translates validation failures into
// per-field messages. A non-validation error is returned as is.
func BindForm(c *gin.Context, form interface{}) (FieldErrors, error) {
	errs := FieldErrors{}
	err := c.ShouldBindWith(form, binding.Form)
	if err == nil {
		return errs, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	t := reflect.TypeOf(form)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for _, fe := range verrs {
		sf, ok := t.FieldByName(fe.StructField())
		if !ok {
			continue
		}
		errs.Add(formName(sf), message(t, sf, fe))
	}
	return errs, nil
}

func formName(sf reflect.StructField) string {
	if name := strings.Split(sf.Tag.Get("form"), ",")[0]; name != "" {
		return name
	}
	return strings.ToLower(sf.Name)
}

// bindingParam returns the parameter of tag in the binding rules of sf.
func bindingParam(sf reflect.StructField, tag string) (string, bool) {
	for _, rule := range strings.Split(sf.Tag.Get("binding"), ",") {
		name, param, _ := strings.Cut(rule, "=")
		if name == tag {
			return param, true
		}
	}
	return "", false
}

func message(t reflect.Type, sf reflect.StructField, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "min", "max":
		min, hasMin := bindingParam(sf, "min")
		max, hasMax := bindingParam(sf, "max")
		switch {
		case hasMin && hasMax:
			return fmt.Sprintf("Field must be between %s and %s characters long.", min, max)
		case hasMin:
			return fmt.Sprintf("Field must be at least %s characters long.", min)
		default:
			return fmt.Sprintf("Field cannot be longer than %s characters.", max)
		}
	case "email":
		return "Invalid email address."
	case "eqfield":
		other := strings.ToLower(fe.Param())
		if of, ok := t.FieldByName(fe.Param()); ok {
			other = formName(of)
		}
		return fmt.Sprintf("Field must be equal to %s.", other)
	case "oneof":
		return "Not a valid choice."
	}
	return "Invalid value."
}
