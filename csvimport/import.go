package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/taskql/taskql/pkg/logger"
	"github.com/taskql/taskql/service"
)

// dateLayouts are the accepted spellings for date columns.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04",
	"01/02/2006",
}

// ColumnIssue describes a CSV header that could not be mapped to a field.
type ColumnIssue struct {
	Header     string `json:"header"`
	Suggestion string `json:"suggestion,omitempty"`
}

// RowError describes why a data row was rejected. Row is 1-based and
// counts the header row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result is the outcome of reading one CSV file.
type Result struct {
	Tasks          []service.Task `json:"tasks"`
	SkippedColumns []ColumnIssue  `json:"skipped_columns,omitempty"`
	RowErrors      []RowError     `json:"row_errors,omitempty"`
}

// Importer validates CSV rows against the workspace vocabulary.
type Importer struct {
	config *service.WorkspaceConfig
}

// New returns an Importer resolving references against cfg.
func New(cfg *service.WorkspaceConfig) *Importer {
	return &Importer{config: cfg}
}

// Read parses and validates a whole CSV stream. Unmappable columns are
// skipped with a diagnostic; invalid rows are rejected individually and
// never abort the rest of the file.
func (im *Importer) Read(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	res := &Result{}
	fields := make([]string, len(header))
	hasTitle := false
	for i, raw := range header {
		field, suggestion, ok := ResolveHeader(raw)
		if !ok {
			res.SkippedColumns = append(res.SkippedColumns, ColumnIssue{
				Header:     raw,
				Suggestion: suggestion,
			})
			continue
		}
		fields[i] = field
		if field == "title" {
			hasTitle = true
		}
	}
	if !hasTitle {
		return nil, fmt.Errorf("no title column: a title (or name) column is required")
	}

	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			res.RowErrors = append(res.RowErrors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}

		task, rowErrs := im.buildTask(fields, record)
		if len(rowErrs) > 0 {
			for _, msg := range rowErrs {
				res.RowErrors = append(res.RowErrors, RowError{Row: rowNum, Message: msg})
			}
			continue
		}
		res.Tasks = append(res.Tasks, *task)
	}

	logger.Debug("csv read complete",
		"tasks", len(res.Tasks),
		"row_errors", len(res.RowErrors),
		"skipped_columns", len(res.SkippedColumns))
	return res, nil
}

// buildTask converts one data row into a task, collecting every
// validation failure instead of stopping at the first.
func (im *Importer) buildTask(fields []string, record []string) (*service.Task, []string) {
	task := &service.Task{}
	var errs []string

	for i, field := range fields {
		if field == "" || i >= len(record) {
			continue
		}
		value := strings.TrimSpace(record[i])
		if value == "" {
			continue
		}

		switch field {
		case "id":
			task.ID = value
		case "title":
			task.Title = value
		case "description":
			task.Description = value
		case "status":
			status, ok := resolveChoice(value, im.config.Statuses)
			if !ok {
				errs = append(errs, fmt.Sprintf("unknown status %q", value))
				continue
			}
			task.Status = status
		case "priority":
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				errs = append(errs, fmt.Sprintf("priority %q is not a number", value))
				continue
			}
			task.Priority = &n
		case "size":
			if size, ok := resolveChoice(value, im.config.Sizes); ok {
				n := float64(indexOf(im.config.Sizes, size) + 1)
				task.Size = &n
				continue
			}
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				errs = append(errs, fmt.Sprintf("size %q is neither a number nor one of %v", value, im.config.Sizes))
				continue
			}
			task.Size = &n
		case "assignee":
			name, ok := resolveRef(value, im.config.Assignees)
			if !ok {
				errs = append(errs, fmt.Sprintf("unknown assignee %q", value))
				continue
			}
			task.Assignee = name
		case "dartboard":
			name, ok := resolveRef(value, im.config.Dartboards)
			if !ok {
				errs = append(errs, fmt.Sprintf("unknown dartboard %q", value))
				continue
			}
			task.Dartboard = name
		case "tags":
			task.Tags = splitTags(value)
		case "parent_task":
			task.ParentTask = value
		case "due_at", "start_at", "completed_at", "created_at", "updated_at":
			ts, err := parseDate(value)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s %q is not a recognized date", field, value))
				continue
			}
			setTimestamp(task, field, ts)
		}
	}

	if task.Title == "" {
		errs = append(errs, "title is required")
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return task, nil
}

// splitTags splits a tag cell on commas and semicolons.
func splitTags(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	})
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// parseDate accepts the known layouts and normalizes to RFC 3339.
func parseDate(value string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(time.RFC3339), nil
		}
	}
	return "", fmt.Errorf("unrecognized date: %s", value)
}

func setTimestamp(task *service.Task, field, ts string) {
	switch field {
	case "due_at":
		task.DueAt = ts
	case "start_at":
		task.StartAt = ts
	case "completed_at":
		task.CompletedAt = ts
	case "created_at":
		task.CreatedAt = ts
	case "updated_at":
		task.UpdatedAt = ts
	}
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
