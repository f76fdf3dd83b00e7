package authmodel

// Credentials 提交时生成的登录凭证，核心逻辑不做持久化
type Credentials struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// User 网关返回的用户信息，核心逻辑不解析其内容
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Field 登录表单中可校验的字段
type Field string

const (
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
)

// AllFields 表单的全部字段，顺序固定
func AllFields() []Field {
	return []Field{FieldEmail, FieldPassword}
}

// Value 取凭证中对应字段的值
func (c Credentials) Value(f Field) string {
	switch f {
	case FieldEmail:
		return c.Email
	case FieldPassword:
		return c.Password
	default:
		return ""
	}
}

// FieldErrors 字段到错误文案的映射，只包含当前无效的字段
type FieldErrors map[Field]string

// Clone 返回副本，nil 返回空映射
func (f FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Has 字段当前是否有错误
func (f FieldErrors) Has(field Field) bool {
	msg, ok := f[field]
	return ok && msg != ""
}
