package services

import (
	"github.com/stretchr/testify/mock"
)

// Ensure MockOperatorSeat implements OperatorSeatInterface
var _ OperatorSeatInterface = (*MockOperatorSeat)(nil)

// MockOperatorSeat is a mock implementation for testing and extends `mock.Mock`
type MockOperatorSeat struct {
	mock.Mock
}

func (m *MockOperatorSeat) Holder() string {
	return m.Called().String(0)
}

func (m *MockOperatorSeat) Claim(user, token string) error {
	return m.Called(user, token).Error(0)
}

func (m *MockOperatorSeat) Release(token string) error {
	return m.Called(token).Error(0)
}

func (m *MockOperatorSeat) Reset() {
	m.Called()
}
