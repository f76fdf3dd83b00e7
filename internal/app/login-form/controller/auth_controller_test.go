package controller

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tsu-login/internal/app/login-form/store"
	"tsu-login/internal/model/authmodel"
	"tsu-login/internal/pkg/ctxkey"
	"tsu-login/internal/pkg/log"
	"tsu-login/internal/pkg/metrics"
	"tsu-login/internal/pkg/xerrors"
)

var validCreds = authmodel.Credentials{Email: "user@example.com", Password: "password123"}

type fixture struct {
	ctrl    *AuthController
	store   *store.Store
	gateway *MockSignInGateway
	metrics *metrics.LoginMetrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s := store.New()
	t.Cleanup(s.Close)

	gw := new(MockSignInGateway)
	m := metrics.NewLoginMetricsWithRegistry("test", prometheus.NewRegistry())
	ids := 0
	ctrl := NewAuthController(s, gw,
		WithLogger(log.Discard()),
		WithMetrics(m),
		WithServiceName("login_form"),
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("attempt-%d", ids)
		}),
	)
	return fixture{ctrl: ctrl, store: s, gateway: gw, metrics: m}
}

func successPayload() authmodel.SuccessResponse {
	return authmodel.ResponseForCode(authmodel.CodeSuccess).(authmodel.SuccessResponse)
}

func TestSubmit_EmptyFormStopsBeforeGateway(t *testing.T) {
	f := newFixture(t)

	got := f.ctrl.Submit(context.Background(), authmodel.Credentials{})

	require.Equal(t, store.KindError, got.Kind())
	fields := store.ValidationFields(got)
	assert.Equal(t, authmodel.FieldErrors{
		authmodel.FieldEmail:    "Email is required",
		authmodel.FieldPassword: "Password is required",
	}, fields)
	assert.True(t, store.SubmitDisabled(got))

	head := got.(store.Failure).Payload.Head()
	assert.Equal(t, 400, head.Status)
	assert.Equal(t, authmodel.CodeValidationError, head.Code)

	f.gateway.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Attempts.WithLabelValues("login_form", "validation_error")))
}

func TestSubmit_InvalidFormatMessages(t *testing.T) {
	f := newFixture(t)

	got := f.ctrl.Submit(context.Background(), authmodel.Credentials{Email: "not-an-email", Password: "short"})

	assert.Equal(t, authmodel.FieldErrors{
		authmodel.FieldEmail:    "Please enter a valid email address",
		authmodel.FieldPassword: "Password must be at least 8 characters",
	}, store.ValidationFields(got))
	f.gateway.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything)
}

func TestSubmit_Success(t *testing.T) {
	f := newFixture(t)
	ch, cancel := f.store.Subscribe()
	defer cancel()

	f.gateway.On("SignIn", mock.Anything, validCreds).Return(successPayload(), nil).Once()

	got := f.ctrl.Submit(context.Background(), validCreds)

	assert.Equal(t, store.Success{Payload: successPayload()}, got)
	assert.Equal(t, got, f.ctrl.State())
	assert.False(t, store.SubmitDisabled(got))

	msg, isErr, ok := store.Banner(got)
	assert.True(t, ok)
	assert.False(t, isErr)
	assert.Equal(t, "Successful Login", msg)

	// 订阅方只保留最新状态
	assert.Equal(t, got, <-ch)

	f.gateway.AssertExpectations(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Attempts.WithLabelValues("login_form", "success")))
	assert.Equal(t, 1, testutil.CollectAndCount(f.metrics.Duration, "test_login_duration_seconds"))
}

func TestSubmit_GatewayPassesAttemptID(t *testing.T) {
	f := newFixture(t)

	f.gateway.On("SignIn", mock.MatchedBy(func(ctx context.Context) bool {
		return ctxkey.GetString(ctx, ctxkey.AttemptID) == "attempt-1"
	}), validCreds).Return(successPayload(), nil).Once()

	f.ctrl.Submit(context.Background(), validCreds)
	f.gateway.AssertExpectations(t)
}

func TestSubmit_GoesThroughLoading(t *testing.T) {
	f := newFixture(t)

	var during store.State
	f.gateway.On("SignIn", mock.Anything, validCreds).
		Run(func(mock.Arguments) { during = f.ctrl.State() }).
		Return(successPayload(), nil).Once()

	f.ctrl.Submit(context.Background(), validCreds)

	assert.Equal(t, store.Loading{}, during)
	assert.True(t, store.SubmitDisabled(during))
}

func TestSubmit_RejectedOutcomes(t *testing.T) {
	for _, code := range []authmodel.Code{
		authmodel.CodeInvalidCredentials,
		authmodel.CodeEmailNotVerified,
		authmodel.CodeInternalError,
		authmodel.CodeServiceUnavailable,
		authmodel.CodeUnknownError,
	} {
		t.Run(string(code), func(t *testing.T) {
			f := newFixture(t)
			payload := authmodel.ResponseForCode(code).(authmodel.OtherErrorResponse)
			f.gateway.On("SignIn", mock.Anything, validCreds).
				Return(authmodel.SuccessResponse{}, authmodel.Reject(payload)).Once()

			got := f.ctrl.Submit(context.Background(), validCreds)

			assert.Equal(t, store.Failure{Payload: payload}, got)
			msg, isErr, ok := store.Banner(got)
			assert.True(t, ok)
			assert.True(t, isErr)
			assert.Equal(t, payload.Message, msg)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Attempts.WithLabelValues("login_form", string(code))))
		})
	}
}

func TestSubmit_InvalidCredentialsPayload(t *testing.T) {
	f := newFixture(t)
	payload := authmodel.ResponseForCode(authmodel.CodeInvalidCredentials).(authmodel.OtherErrorResponse)
	f.gateway.On("SignIn", mock.Anything, validCreds).
		Return(authmodel.SuccessResponse{}, fmt.Errorf("gateway: %w", authmodel.Reject(payload))).Once()

	got := f.ctrl.Submit(context.Background(), validCreds)

	head := got.(store.Failure).Payload.Head()
	assert.Equal(t, 401, head.Status)
	assert.Equal(t, "Email or password is incorrect", head.Message)
	assert.False(t, store.HasValidationError(got))
}

func TestSubmit_UnrecognizedErrorFallsBack(t *testing.T) {
	cases := map[string]error{
		"plain error":   errors.New("boom"),
		"app error":     xerrors.NewExternalServiceError("auth_api", context.DeadlineExceeded),
		"nil rejection": &authmodel.RejectedError{},
		"code outside enum": authmodel.Reject(authmodel.OtherErrorResponse{
			Envelope: authmodel.Envelope{Status: 418, Code: "teapot", Message: "I'm a teapot"},
		}),
	}
	for name, gwErr := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.gateway.On("SignIn", mock.Anything, validCreds).
				Return(authmodel.SuccessResponse{}, gwErr).Once()

			got := f.ctrl.Submit(context.Background(), validCreds)

			require.Equal(t, store.KindError, got.Kind())
			head := got.(store.Failure).Payload.Head()
			assert.Equal(t, 400, head.Status)
			assert.Equal(t, authmodel.CodeUnknownError, head.Code)
			assert.Equal(t, "Unknown Error occurred", head.Message)
		})
	}
}

func TestSubmit_StaleResultIsDropped(t *testing.T) {
	f := newFixture(t)
	slow := authmodel.Credentials{Email: "slow@example.com", Password: "password123"}

	started := make(chan struct{})
	release := make(chan struct{})
	f.gateway.On("SignIn", mock.Anything, slow).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(authmodel.SuccessResponse{}, authmodel.Reject(authmodel.ResponseForCode(authmodel.CodeInternalError).(authmodel.OtherErrorResponse))).Once()
	f.gateway.On("SignIn", mock.Anything, validCreds).Return(successPayload(), nil).Once()

	done := make(chan store.State, 1)
	go func() {
		done <- f.ctrl.Submit(context.Background(), slow)
	}()
	<-started

	latest := f.ctrl.Submit(context.Background(), validCreds)
	require.Equal(t, store.KindSuccess, latest.Kind())

	close(release)
	select {
	case got := <-done:
		assert.Equal(t, latest, got)
	case <-time.After(2 * time.Second):
		t.Fatal("stale submission did not finish")
	}

	assert.Equal(t, latest, f.ctrl.State())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StaleResults.WithLabelValues("login_form")))
	f.gateway.AssertExpectations(t)
}

func TestSubmit_LaterInvalidSubmitWinsOverPendingLoading(t *testing.T) {
	f := newFixture(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	ctrl := NewAuthController(f.store, f.gateway,
		WithLogger(log.Discard()),
		WithMetrics(f.metrics),
		WithServiceName("login_form"),
		WithIDGenerator(func() string {
			calls++
			if calls == 1 {
				close(entered)
				<-release
			}
			return fmt.Sprintf("attempt-%d", calls)
		}),
	)

	done := make(chan store.State, 1)
	go func() {
		done <- ctrl.Submit(context.Background(), validCreds)
	}()
	<-entered

	invalid := ctrl.Submit(context.Background(), authmodel.Credentials{})
	require.Equal(t, store.KindError, invalid.Kind())

	close(release)
	select {
	case got := <-done:
		assert.Equal(t, invalid, got)
	case <-time.After(2 * time.Second):
		t.Fatal("first submission did not finish")
	}

	final := ctrl.State()
	assert.Equal(t, invalid, final)
	assert.NotEqual(t, store.KindLoading, final.Kind())
	assert.True(t, store.SubmitDisabled(final))
	f.gateway.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StaleResults.WithLabelValues("login_form")))

	// 表单没有卡在 Loading，字段交互仍然生效
	fixed := ctrl.OnFieldBlur(authmodel.FieldEmail, validCreds)
	assert.Equal(t, authmodel.FieldErrors{authmodel.FieldPassword: "Password is required"}, store.ValidationFields(fixed))
}

func TestOnFieldBlur_ShowsOnlyThatField(t *testing.T) {
	f := newFixture(t)

	got := f.ctrl.OnFieldBlur(authmodel.FieldEmail, authmodel.Credentials{Email: "bad", Password: ""})

	assert.Equal(t, authmodel.FieldErrors{
		authmodel.FieldEmail: "Please enter a valid email address",
	}, store.ValidationFields(got))
}

func TestOnFieldBlur_KeepsOtherFieldErrors(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Submit(context.Background(), authmodel.Credentials{})

	got := f.ctrl.OnFieldBlur(authmodel.FieldEmail, authmodel.Credentials{Email: "user@example.com"})

	assert.Equal(t, authmodel.FieldErrors{
		authmodel.FieldPassword: "Password is required",
	}, store.ValidationFields(got))
	assert.True(t, store.SubmitDisabled(got))
}

func TestOnFieldBlur_ClearsToIdleWhenAllFixed(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Submit(context.Background(), authmodel.Credentials{Email: "user@example.com"})

	got := f.ctrl.OnFieldBlur(authmodel.FieldPassword, validCreds)

	assert.Equal(t, store.Idle{}, got)
	assert.False(t, store.SubmitDisabled(got))
}

func TestOnFieldBlur_Idempotent(t *testing.T) {
	f := newFixture(t)
	creds := authmodel.Credentials{Email: "bad", Password: "short"}

	first := f.ctrl.OnFieldBlur(authmodel.FieldPassword, creds)
	second := f.ctrl.OnFieldBlur(authmodel.FieldPassword, creds)

	assert.Equal(t, first, second)
}

func TestOnFieldBlur_IgnoredWhileLoading(t *testing.T) {
	f := newFixture(t)
	f.store.Set(store.Loading{})

	got := f.ctrl.OnFieldBlur(authmodel.FieldEmail, authmodel.Credentials{})

	assert.Equal(t, store.Loading{}, got)
}

func TestOnFieldBlur_ReplacesGatewayError(t *testing.T) {
	f := newFixture(t)
	f.store.Set(store.Failure{Payload: authmodel.ResponseForCode(authmodel.CodeInvalidCredentials).(authmodel.ErrorResponse)})

	got := f.ctrl.OnFieldBlur(authmodel.FieldEmail, validCreds)

	assert.Equal(t, store.Idle{}, got)
}

func TestOnFieldChange_OnlyWhenFieldHasError(t *testing.T) {
	f := newFixture(t)

	got := f.ctrl.OnFieldChange(authmodel.FieldEmail, authmodel.Credentials{Email: "b"})
	assert.Equal(t, store.Idle{}, got)

	f.ctrl.Submit(context.Background(), authmodel.Credentials{Password: "password123"})
	got = f.ctrl.OnFieldChange(authmodel.FieldEmail, authmodel.Credentials{Email: "b", Password: "password123"})
	assert.Equal(t, "Please enter a valid email address", store.FieldError(got, authmodel.FieldEmail))

	got = f.ctrl.OnFieldChange(authmodel.FieldEmail, validCreds)
	assert.Equal(t, store.Idle{}, got)
}

func TestSubmit_AfterFixingFieldsReachesGateway(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Submit(context.Background(), authmodel.Credentials{})
	f.gateway.On("SignIn", mock.Anything, validCreds).Return(successPayload(), nil).Once()

	got := f.ctrl.Submit(context.Background(), validCreds)

	assert.Equal(t, store.KindSuccess, got.Kind())
	f.gateway.AssertExpectations(t)
}

func TestSubmit_AfterCloseLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	f.store.Close()
	f.gateway.On("SignIn", mock.Anything, validCreds).Return(successPayload(), nil).Once()

	got := f.ctrl.Submit(context.Background(), validCreds)

	assert.Equal(t, store.Idle{}, got)
}

func TestSubmit_RequiredWinsOverFormat(t *testing.T) {
	f := newFixture(t)

	got := f.ctrl.Submit(context.Background(), authmodel.Credentials{Email: "", Password: "short"})

	assert.Equal(t, authmodel.FieldErrors{
		authmodel.FieldEmail:    "Email is required",
		authmodel.FieldPassword: "Password must be at least 8 characters",
	}, store.ValidationFields(got))
	f.gateway.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything)
}

func TestOnFieldInteraction_FixedEmailReturnsToIdle(t *testing.T) {
	f := newFixture(t)
	f.store.Set(store.Failure{Payload: authmodel.ValidationTemplate().WithFields(authmodel.FieldErrors{
		authmodel.FieldEmail: "Email is required",
	})})

	got := f.ctrl.OnFieldInteraction(authmodel.FieldEmail, authmodel.Credentials{Email: "a@b.com"})

	assert.Equal(t, store.Idle{}, got)
}

func TestSubmit_SuccessPayloadUnchanged(t *testing.T) {
	f := newFixture(t)
	payload := authmodel.NewSuccessResponse(200, "Successful Login", authmodel.User{ID: "u-1", Email: "a@b.com", Name: "A"})
	creds := authmodel.Credentials{Email: "a@b.com", Password: "longenough1"}
	f.gateway.On("SignIn", mock.Anything, creds).Return(payload, nil).Once()

	got := f.ctrl.Submit(context.Background(), creds)

	assert.Equal(t, store.Success{Payload: payload}, got)
}
