package account

// Field names as posted by the password form.
const (
	FieldCurrentPassword = "currentPassword"
	FieldPassword        = "password"
	FieldPasswordConf    = "passwordConf"
)

// Form holds what the user typed into the password form.
type Form struct {
	CurrentPassword string `form:"currentPassword"`
	Password        string `form:"password"`
	PasswordConf    string `form:"passwordConf"`
}

// WithField returns a copy of f with only the named field replaced.
// Unknown names leave the form unchanged.
func (f Form) WithField(name, value string) Form {
	switch name {
	case FieldCurrentPassword:
		f.CurrentPassword = value
	case FieldPassword:
		f.Password = value
	case FieldPasswordConf:
		f.PasswordConf = value
	}
	return f
}
