package tui

import "github.com/dotcommander/scout/internal/storage/cache"

// GlamourOutput returns the last rendered formatted output.
func (m *Research) GlamourOutput() string {
	return m.glamOutput
}

// Report returns the assistant's text collected during streaming, without
// the tool notices shown on screen.
func (m *Research) Report() string {
	return m.reportBuf.String()
}

// Messages returns the transcript built during streaming.
func (m *Research) Messages() []cache.Message {
	return m.messages
}

// Query returns the query the run was started with.
func (m *Research) Query() string {
	return m.query
}
