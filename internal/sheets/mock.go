package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/grocer/internal/model"
	"github.com/Veraticus/grocer/internal/service"
)

// MockWriter records Write calls. It satisfies service.ReportWriter.
type MockWriter struct {
	WriteFunc  func(ctx context.Context, rows []model.Row, summary service.ReportSummary) error
	WriteCalls []WriteCall
	mu         sync.Mutex
}

// WriteCall is one recorded call to Write.
type WriteCall struct {
	Error   error
	Summary service.ReportSummary
	Rows    []model.Row
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write implements service.ReportWriter.
func (m *MockWriter) Write(ctx context.Context, rows []model.Row, summary service.ReportSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, rows, summary)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{
		Rows:    append([]model.Row(nil), rows...),
		Summary: summary,
		Error:   err,
	})
	return err
}

// Calls returns a copy of all recorded calls.
func (m *MockWriter) Calls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError makes every later Write return err.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(context.Context, []model.Row, service.ReportSummary) error {
		return err
	}
}
