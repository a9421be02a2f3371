// Package llmtest provides a testify mock of llm.Client.
package llmtest

import (
	"context"

	"github.com/dualsolve/dualsolve/internal/llm"
	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	ret := m.Called(ctx, req)
	return ret.String(0), ret.Error(1)
}

func (m *MockClient) Configured() bool {
	ret := m.Called()
	return ret.Bool(0)
}

func (m *MockClient) Provider() string {
	return "mock"
}
