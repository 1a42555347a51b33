package inference

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockSender is a mock implementation of Sender using testify/mock.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, req Request, timeout time.Duration) (RawResponse, error) {
	args := m.Called(ctx, req, timeout)
	return args.Get(0).(RawResponse), args.Error(1)
}
