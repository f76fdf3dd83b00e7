package controller

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tsu-login/internal/model/authmodel"
)

type MockSignInGateway struct {
	mock.Mock
}

func (m *MockSignInGateway) SignIn(ctx context.Context, creds authmodel.Credentials) (authmodel.SuccessResponse, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(authmodel.SuccessResponse), args.Error(1)
}
