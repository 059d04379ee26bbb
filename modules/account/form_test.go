package account_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/studylog/modules/account"
)

func TestForm_WithField(t *testing.T) {
	t.Parallel()

	base := account.Form{CurrentPassword: "a", Password: "b", PasswordConf: "c"}

	assert.Equal(t, account.Form{CurrentPassword: "x", Password: "b", PasswordConf: "c"}, base.WithField(account.FieldCurrentPassword, "x"))
	assert.Equal(t, account.Form{CurrentPassword: "a", Password: "x", PasswordConf: "c"}, base.WithField(account.FieldPassword, "x"))
	assert.Equal(t, account.Form{CurrentPassword: "a", Password: "b", PasswordConf: "x"}, base.WithField(account.FieldPasswordConf, "x"))
	assert.Equal(t, base, base.WithField("email", "x"))
}

func TestForm_WithFieldSequence(t *testing.T) {
	t.Parallel()

	fields := []string{account.FieldCurrentPassword, account.FieldPassword, account.FieldPasswordConf}
	rng := rand.New(rand.NewPCG(1, 2))

	var f account.Form
	want := map[string]string{}
	for i := range 200 {
		name := fields[rng.IntN(len(fields))]
		value := string(rune('a' + i%26))
		f = f.WithField(name, value)
		want[name] = value

		assert.Equal(t, want[account.FieldCurrentPassword], f.CurrentPassword)
		assert.Equal(t, want[account.FieldPassword], f.Password)
		assert.Equal(t, want[account.FieldPasswordConf], f.PasswordConf)
	}
}
