package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsu-login/internal/model/authmodel"
	"tsu-login/internal/pkg/log"
	"tsu-login/internal/pkg/xerrors"
)

var creds = authmodel.Credentials{Email: "user@example.com", Password: "password123"}

func TestMockGateway_FixedSuccess(t *testing.T) {
	g := NewMockGateway(WithDelay(0), WithPicker(FixedOutcome(authmodel.CodeSuccess)), WithMockLogger(log.Discard()))

	resp, err := g.SignIn(context.Background(), creds)

	require.NoError(t, err)
	assert.Equal(t, authmodel.ResponseForCode(authmodel.CodeSuccess), resp)
	assert.Equal(t, "mocked_user_id", resp.User.ID)
}

func TestMockGateway_FixedRejections(t *testing.T) {
	for _, code := range []authmodel.Code{
		authmodel.CodeInvalidCredentials,
		authmodel.CodeEmailNotVerified,
		authmodel.CodeInternalError,
		authmodel.CodeServiceUnavailable,
		authmodel.CodeUnknownError,
	} {
		t.Run(string(code), func(t *testing.T) {
			g := NewMockGateway(WithDelay(0), WithPicker(FixedOutcome(code)), WithMockLogger(log.Discard()))

			_, err := g.SignIn(context.Background(), creds)

			var rejected *authmodel.RejectedError
			require.True(t, errors.As(err, &rejected))
			assert.Equal(t, authmodel.ResponseForCode(code), rejected.Response)
		})
	}
}

func TestMockGateway_PickerSeesRejectableCatalogue(t *testing.T) {
	var seen []authmodel.Response
	g := NewMockGateway(WithDelay(0), WithMockLogger(log.Discard()), WithPicker(func(c []authmodel.Response) authmodel.Response {
		seen = c
		return c[0]
	}))

	_, _ = g.SignIn(context.Background(), creds)

	assert.Len(t, seen, len(authmodel.Codes())-1)
	for _, r := range seen {
		assert.NotEqual(t, authmodel.CodeValidationError, r.Head().Code)
	}
}

func TestMockGateway_RandomOutcomeStaysInCatalogue(t *testing.T) {
	g := NewMockGateway(WithDelay(0), WithMockLogger(log.Discard()))

	for i := 0; i < 50; i++ {
		resp, err := g.SignIn(context.Background(), creds)
		if err == nil {
			assert.Equal(t, authmodel.CodeSuccess, resp.Code)
			continue
		}
		var rejected *authmodel.RejectedError
		require.True(t, errors.As(err, &rejected))
		assert.True(t, rejected.Response.Head().Code.IsError())
	}
}

func TestMockGateway_HonoursCancellation(t *testing.T) {
	g := NewMockGateway(WithDelay(time.Minute), WithMockLogger(log.Discard()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.SignIn(ctx, creds)

	var appErr *xerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, xerrors.CodeCanceled, appErr.Code)
}
