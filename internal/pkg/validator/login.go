package validator

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength 登录密码最小长度（按字符计）
const MinPasswordLength = 8

var (
	loginValidate     *validator.Validate
	loginValidateOnce sync.Once
)

// LoginValidator 返回注册了登录校验规则的共享实例
func LoginValidator() *validator.Validate {
	loginValidateOnce.Do(func() {
		v := validator.New()
		if err := RegisterLoginValidators(v); err != nil {
			panic("注册登录校验规则失败: " + err.Error())
		}
		loginValidate = v
	})
	return loginValidate
}

// RegisterLoginValidators 注册登录表单相关的自定义校验器
func RegisterLoginValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("login_email", validateLoginEmail); err != nil {
		return err
	}
	return v.RegisterValidation("login_password", validateLoginPassword)
}

// ValidateEmail 校验邮箱形如 <local>@<domain>
func ValidateEmail(s string) bool {
	return LoginValidator().Var(s, "login_email") == nil
}

// ValidatePassword 校验密码长度不少于 MinPasswordLength
func ValidatePassword(s string) bool {
	return LoginValidator().Var(s, "login_password") == nil
}

// validateLoginEmail 要求：不含空白，恰好一个 @，两侧均非空
// 不做 DNS 或完整的 RFC 5321 校验
func validateLoginEmail(fl validator.FieldLevel) bool {
	email := fl.Field().String()

	if strings.IndexFunc(email, unicode.IsSpace) >= 0 {
		return false
	}
	if strings.Count(email, "@") != 1 {
		return false
	}
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1
}

func validateLoginPassword(fl validator.FieldLevel) bool {
	return utf8.RuneCountInString(fl.Field().String()) >= MinPasswordLength
}
