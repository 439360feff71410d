package analysis

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/RyanBlaney/sonido-mapping/logging"
)

// MockLogger mocks logging.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields ...logging.Fields) {
	m.Called(msg)
}

func (m *MockLogger) Info(msg string, fields ...logging.Fields) {
	m.Called(msg)
}

func (m *MockLogger) Warn(msg string, fields ...logging.Fields) {
	m.Called(msg)
}

func (m *MockLogger) Error(err error, msg string, fields ...logging.Fields) {
	m.Called(err, msg)
}

func (m *MockLogger) Fatal(err error, msg string, fields ...logging.Fields) {
	m.Called(err, msg)
}

func (m *MockLogger) WithFields(fields logging.Fields) logging.Logger {
	args := m.Called(fields)
	return args.Get(0).(logging.Logger)
}

func (m *MockLogger) WithContext(ctx context.Context) logging.Logger {
	args := m.Called(ctx)
	return args.Get(0).(logging.Logger)
}

func (m *MockLogger) SetLevel(level logging.Level) {
	m.Called(level)
}

// newMockLogger returns a mock that accepts derived loggers and debug/info
// lines; tests add their own Warn and Error expectations.
func newMockLogger() *MockLogger {
	m := &MockLogger{}
	m.On("WithContext", mock.Anything).Return(m).Maybe()
	m.On("WithFields", mock.Anything).Return(m).Maybe()
	m.On("Debug", mock.Anything).Return().Maybe()
	m.On("Info", mock.Anything).Return().Maybe()
	return m
}
