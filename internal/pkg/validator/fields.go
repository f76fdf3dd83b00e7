package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"tsu-login/internal/model/authmodel"
)

// loginForm 登录表单的校验规则。required 在前，空值只会得到 required 错误
type loginForm struct {
	Email    string `validate:"required,login_email"`
	Password string `validate:"required,login_password"`
}

var structFields = map[authmodel.Field]string{
	authmodel.FieldEmail:    "Email",
	authmodel.FieldPassword: "Password",
}

var fieldMessages = map[authmodel.Field]map[string]string{
	authmodel.FieldEmail: {
		"required":    "Email is required",
		"login_email": "Please enter a valid email address",
	},
	authmodel.FieldPassword: {
		"required":       "Password is required",
		"login_password": "Password must be at least 8 characters",
	},
}

// CollectFieldErrors 对 targets 中的字段重新校验，其余字段沿用 previous 中已有的错误。
// 没有任何错误时返回 nil，调用方据此判断可以继续提交
func CollectFieldErrors(creds authmodel.Credentials, targets []authmodel.Field, previous authmodel.FieldErrors) authmodel.FieldErrors {
	fields := previous.Clone()

	names := make([]string, 0, len(targets))
	for _, target := range targets {
		name, ok := structFields[target]
		if !ok {
			continue
		}
		delete(fields, target)
		names = append(names, name)
	}

	if len(names) > 0 {
		form := loginForm{Email: creds.Email, Password: creds.Password}
		err := LoginValidator().StructPartial(form, names...)
		for field, msg := range translateLoginErrors(err) {
			fields[field] = msg
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// translateLoginErrors 把 validator 的错误翻译为字段文案，每个字段最多一条
func translateLoginErrors(err error) authmodel.FieldErrors {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		panic("登录表单校验失败: " + err.Error())
	}

	out := make(authmodel.FieldErrors, len(validationErrs))
	for _, fieldErr := range validationErrs {
		field := fieldFromStruct(fieldErr.StructField())
		if field == "" {
			continue
		}
		msg, ok := fieldMessages[field][fieldErr.Tag()]
		if !ok {
			msg = fieldErr.Error()
		}
		out[field] = msg
	}
	return out
}

func fieldFromStruct(name string) authmodel.Field {
	for field, structName := range structFields {
		if structName == name {
			return field
		}
	}
	return ""
}
