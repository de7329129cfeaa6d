// Package testutil provides test helpers and testify mocks for the interfaces
// defined by the fixnss conversion library and CLI.
package testutil

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/stackvity/fixnss/pkg/converter"
)

// MockEncodingHandler provides a mock implementation of the encoding.EncodingHandler interface.
// Configure expectations using testify/mock methods (e.g., .On("DetectAndDecode", ...).Return(...)).
type MockEncodingHandler struct {
	mock.Mock
}

// DetectAndDecode mocks the DetectAndDecode method.
func (m *MockEncodingHandler) DetectAndDecode(content []byte) (utf8Content []byte, detectedEncoding string, certainty bool, err error) {
	args := m.Called(content)
	utf8Content, _ = args.Get(0).([]byte)
	detectedEncoding, _ = args.Get(1).(string)
	certainty, _ = args.Get(2).(bool)
	err = args.Error(3)
	return
}

// Encode mocks the Encode method.
func (m *MockEncodingHandler) Encode(utf8Content []byte, encodingName string) ([]byte, error) {
	args := m.Called(utf8Content, encodingName)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

// IsBinary mocks the IsBinary method.
func (m *MockEncodingHandler) IsBinary(content []byte) bool {
	args := m.Called(content)
	isBinary, _ := args.Get(0).(bool)
	return isBinary
}

// MockHooks provides a mock implementation of the converter.Hooks interface.
// Configure expectations using testify/mock methods (e.g., .On("OnFileStatusUpdate", ...).Return(...)).
type MockHooks struct {
	mock.Mock
}

// OnFileDiscovered mocks the OnFileDiscovered method.
func (m *MockHooks) OnFileDiscovered(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// OnFileStatusUpdate mocks the OnFileStatusUpdate method.
func (m *MockHooks) OnFileStatusUpdate(path string, status converter.Status, message string, duration time.Duration) error {
	args := m.Called(path, status, message, duration)
	return args.Error(0)
}

// OnRunComplete mocks the OnRunComplete method.
func (m *MockHooks) OnRunComplete(report converter.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

// MockProgressBar records progress bar calls made by the CLI hooks.
type MockProgressBar struct {
	mock.Mock
}

// Add mocks the Add method.
func (m *MockProgressBar) Add(num int) error {
	args := m.Called(num)
	return args.Error(0)
}

// Describe mocks the Describe method.
func (m *MockProgressBar) Describe(description string) error {
	args := m.Called(description)
	return args.Error(0)
}

// Close mocks the Close method.
func (m *MockProgressBar) Close() error {
	args := m.Called()
	return args.Error(0)
}
