package mocks

import (
	"context"
	"sync"
)

// NVPCall is one captured transport call
type NVPCall struct {
	Endpoint string
	Body     string
}

// MockNVPTransport is a mock implementation of NVPTransport for testing
type MockNVPTransport struct {
	PostFunc func(ctx context.Context, endpoint, body string) ([]byte, error)
	Calls    []NVPCall

	mu sync.Mutex
}

// NewMockNVPTransport returns a transport that answers every call with response
func NewMockNVPTransport(response string) *MockNVPTransport {
	return &MockNVPTransport{
		PostFunc: func(ctx context.Context, endpoint, body string) ([]byte, error) {
			return []byte(response), nil
		},
	}
}

// Post captures the call and delegates to PostFunc
func (m *MockNVPTransport) Post(ctx context.Context, endpoint, body string) ([]byte, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, NVPCall{Endpoint: endpoint, Body: body})
	m.mu.Unlock()

	if m.PostFunc != nil {
		return m.PostFunc(ctx, endpoint, body)
	}
	return nil, nil
}

// LastCall returns the most recent call
func (m *MockNVPTransport) LastCall() (NVPCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return NVPCall{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}
