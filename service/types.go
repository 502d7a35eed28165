package service

// Task is the wire representation of a task in the remote service.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	Priority    *float64 `json:"priority,omitempty"`
	Size        *float64 `json:"size,omitempty"`
	Assignee    string   `json:"assignee,omitempty"`
	Dartboard   string   `json:"dartboard,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ParentTask  string   `json:"parent_task,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
	DueAt       string   `json:"due_at,omitempty"`
	StartAt     string   `json:"start_at,omitempty"`
	CompletedAt string   `json:"completed_at,omitempty"`
}

// Record flattens the task into the field map the compiled predicates
// evaluate against. Unset optional fields stay absent so null checks
// and negative operators see them as missing.
func (t *Task) Record() map[string]any {
	rec := map[string]any{
		"id":    t.ID,
		"title": t.Title,
	}
	put := func(key, val string) {
		if val != "" {
			rec[key] = val
		}
	}
	put("description", t.Description)
	put("status", t.Status)
	put("assignee", t.Assignee)
	put("dartboard", t.Dartboard)
	put("parent_task", t.ParentTask)
	put("created_at", t.CreatedAt)
	put("updated_at", t.UpdatedAt)
	put("due_at", t.DueAt)
	put("start_at", t.StartAt)
	put("completed_at", t.CompletedAt)

	if t.Priority != nil {
		rec["priority"] = *t.Priority
	}
	if t.Size != nil {
		rec["size"] = *t.Size
	}
	if len(t.Tags) > 0 {
		tags := make([]any, len(t.Tags))
		for i, tag := range t.Tags {
			tags[i] = tag
		}
		rec["tags"] = tags
	}
	return rec
}

// NamedRef is a workspace entity referenced by name from queries and
// CSV imports.
type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkspaceConfig is the workspace vocabulary used for reference
// resolution: which dartboards, assignees, statuses and sizes exist.
type WorkspaceConfig struct {
	Dartboards []NamedRef `json:"dartboards"`
	Assignees  []NamedRef `json:"assignees"`
	Statuses   []string   `json:"statuses"`
	Sizes      []string   `json:"sizes"`
}
