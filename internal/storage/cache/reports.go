package cache

import (
	"encoding/json"
	"errors"
	"io"
	"os"
)

// ErrReportNotFound is returned when a run has no cached report.
var ErrReportNotFound = errors.New("no cached report")

// Message is one transcript entry of a research run.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Report is the cached result of a research run.
type Report struct {
	Query    string    `json:"query"`
	Markdown string    `json:"markdown"`
	Messages []Message `json:"messages,omitempty"`
}

// Reports stores rendered reports and transcripts keyed by run ID.
type Reports struct {
	cache *Cache[Report]
}

// NewReports creates the report cache under the given base directory.
func NewReports(baseDir string) (*Reports, error) {
	c, err := New[Report](baseDir, ReportCache)
	if err != nil {
		return nil, err
	}
	return &Reports{cache: c}, nil
}

// Read loads the cached report for a run ID.
func (r *Reports) Read(id string) (Report, error) {
	var report Report
	err := r.cache.Read(id, func(reader io.Reader) error {
		return json.NewDecoder(reader).Decode(&report)
	})
	if errors.Is(err, os.ErrNotExist) {
		return report, ErrReportNotFound
	}
	return report, err
}

// Write stores the report for a run ID.
func (r *Reports) Write(id string, report Report) error {
	return r.cache.Write(id, func(writer io.Writer) error {
		return json.NewEncoder(writer).Encode(report)
	})
}

// Delete removes the cached report for a run ID.
func (r *Reports) Delete(id string) error {
	err := r.cache.Delete(id)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
