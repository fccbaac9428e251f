package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	usernameTag   = "username"
	usernameText  = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

	pwdMinLen        = 8
	pwdMinLenTag     = "pwdminlen"
	pwdMinLenText    = "This password is too short. It must contain at least 8 characters."
	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "This password is entirely numeric."

	bioMinLen = 10
	bioTag    = "bio"
	bioText   = "Biography must be at least 10 characters long."
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// 错误里使用 json 字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(usernameTag, usernameValidation)
	_ = validate.RegisterValidation(pwdMinLenTag, pwdMinLenValidation)
	_ = validate.RegisterValidation(pwdNotAllNumTag, pwdNotAllNumValidation)
	_ = validate.RegisterValidation(bioTag, bioValidation)

	registerTranslation("required", "This field is required.")
	registerTranslation("email", "Enter a valid email address.")
	registerTranslation("url", "Enter a valid URL.")
	registerTranslation("datetime", "Enter a valid date.")
	registerTranslation("eqfield", "The two password fields didn't match.")
	registerTranslation(usernameTag, usernameText)
	registerTranslation(pwdMinLenTag, pwdMinLenText)
	registerTranslation(pwdNotAllNumTag, pwdNotAllNumText)
	registerTranslation(bioTag, bioText)
	registerBoundTranslation("max",
		"Ensure this value has at most {0} characters.",
		"Ensure this value is less than or equal to {0}.")
	registerBoundTranslation("min",
		"Ensure this value has at least {0} characters.",
		"Ensure this value is greater than or equal to {0}.")
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Param())
			return s
		},
	)
}

// registerBoundTranslation min/max 对字符串和数字使用不同的提示
func registerBoundTranslation(tag, lengthText, numberText string) {
	numberKey := tag + "_number"
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error {
			if err := t.Add(tag, lengthText, true); err != nil {
				return err
			}
			return t.Add(numberKey, numberText, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			key := tag
			switch fe.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
				reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
				reflect.Float32, reflect.Float64:
				key = numberKey
			}
			s, _ := t.T(key, fe.Param())
			return s
		},
	)
}

// Validate 校验表单结构体，失败时返回 *Error
func Validate(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	errs := Errors{}
	for _, fe := range verrs {
		errs.Add(fe.Field(), fe.Translate(translator))
	}
	return &Error{Fields: errs}
}

func usernameValidation(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

func pwdMinLenValidation(fl validator.FieldLevel) bool {
	return len([]rune(fl.Field().String())) >= pwdMinLen
}

func pwdNotAllNumValidation(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// bioValidation 空简介视为未填写
func bioValidation(fl validator.FieldLevel) bool {
	bio := fl.Field().String()
	if bio == "" {
		return true
	}
	return len([]rune(bio)) >= bioMinLen
}
