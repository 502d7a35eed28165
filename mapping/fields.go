package mapping

// Fields is the recognized field vocabulary of the filter dialect, in the
// order diagnostics list it. It mirrors the attributes the task service
// exposes on a task record.
var Fields = []string{
	"status",
	"priority",
	"size",
	"title",
	"description",
	"assignee",
	"dartboard",
	"tags",
	"created_at",
	"updated_at",
	"due_at",
	"start_at",
	"completed_at",
	"parent_task",
	"id",
}

var fieldSet = map[string]bool{}

func init() {
	for _, f := range Fields {
		fieldSet[f] = true
	}
}

// IsField reports whether name (lowercase) is a recognized field.
func IsField(name string) bool {
	return fieldSet[name]
}

// ColumnAliases maps normalized CSV header spellings to canonical fields.
// Keys are lowercase with spaces collapsed to underscores; plural headers
// are singularized before lookup, so entries here stay in singular form
// except where the field itself is plural.
var ColumnAliases = map[string]string{
	"id":          "id",
	"task_id":     "id",
	"title":       "title",
	"name":        "title",
	"task":        "title",
	"task_name":   "title",
	"summary":     "title",
	"description": "description",
	"note":        "description",
	"detail":      "description",
	"status":      "status",
	"state":       "status",
	"column":      "status",
	"priority":    "priority",
	"size":        "size",
	"estimate":    "size",
	"point":       "size",
	"assignee":    "assignee",
	"owner":       "assignee",
	"assigned_to": "assignee",
	"dartboard":   "dartboard",
	"board":       "dartboard",
	"project":     "dartboard",
	"list":        "dartboard",
	"tag":         "tags",
	"tags":        "tags",
	"label":       "tags",
	"due_at":      "due_at",
	"due":         "due_at",
	"due_date":    "due_at",
	"deadline":    "due_at",
	"start_at":    "start_at",
	"start_date":  "start_at",
	"parent_task": "parent_task",
	"parent":      "parent_task",
}
