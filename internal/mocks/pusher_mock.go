package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/benmeehan/push-agent/internal/models"
)

// MockPusher is a mock implementation of the push.Pusher interface
type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) Push(ctx context.Context, payload models.PushPayload) models.PushResult {
	args := m.Called(ctx, payload)
	return args.Get(0).(models.PushResult)
}
