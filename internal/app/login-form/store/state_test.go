package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tsu-login/internal/model/authmodel"
)

func TestStateQueries(t *testing.T) {
	success := authmodel.ResponseForCode(authmodel.CodeSuccess).(authmodel.SuccessResponse)
	invalid := authmodel.ResponseForCode(authmodel.CodeInvalidCredentials).(authmodel.ErrorResponse)
	validation := authmodel.ValidationTemplate().WithFields(authmodel.FieldErrors{
		authmodel.FieldPassword: "Password is required",
	})

	tests := []struct {
		name           string
		state          State
		kind           Kind
		submitDisabled bool
		banner         string
		bannerIsError  bool
		passwordError  string
	}{
		{name: "idle", state: Idle{}, kind: KindIdle},
		{name: "loading", state: Loading{}, kind: KindLoading, submitDisabled: true},
		{name: "success", state: Success{Payload: success}, kind: KindSuccess, banner: "Successful Login"},
		{name: "domain error", state: Failure{Payload: invalid}, kind: KindError, banner: "Email or password is incorrect", bannerIsError: true},
		{name: "validation error", state: Failure{Payload: validation}, kind: KindError, submitDisabled: true, passwordError: "Password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.state.Kind())
			assert.Equal(t, tt.submitDisabled, SubmitDisabled(tt.state))
			assert.Equal(t, tt.passwordError, FieldError(tt.state, authmodel.FieldPassword))
			assert.Empty(t, FieldError(tt.state, authmodel.FieldEmail))

			msg, isErr, ok := Banner(tt.state)
			assert.Equal(t, tt.banner != "", ok)
			assert.Equal(t, tt.banner, msg)
			assert.Equal(t, tt.bannerIsError, isErr)
		})
	}
}

func TestMatch_IsExhaustive(t *testing.T) {
	name := func(s State) string {
		return Match(s,
			func() string { return "idle" },
			func() string { return "loading" },
			func(authmodel.SuccessResponse) string { return "success" },
			func(authmodel.ErrorResponse) string { return "error" },
		)
	}
	assert.Equal(t, "idle", name(Idle{}))
	assert.Equal(t, "loading", name(Loading{}))
	assert.Equal(t, "success", name(Success{}))
	assert.Equal(t, "error", name(Failure{Payload: authmodel.UnknownErrorFallback()}))
}
