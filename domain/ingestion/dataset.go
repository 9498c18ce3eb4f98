package ingestion

import (
	"time"

	"github.com/shopspring/decimal"
)

// NodeTypeTask is the node type every imported work item carries.
const NodeTypeTask = "task"

// DefaultUnassignedUser is the creator recorded for tasks that list no
// executor.
const DefaultUnassignedUser = "未分配"

// Warning codes a parse can produce. Codes are stable; messages are
// free text for humans.
const (
	WarningMissingTitle         = "missing_title"
	WarningMissingParentColumns = "missing_parent_columns"
	WarningMissingParentCreated = "missing_parent_node_created"
	WarningMissingParentNode    = "missing_parent_node"
	WarningAmbiguousParentTitle = "ambiguous_parent_title"
)

// TaskRecord is one work item lifted out of an imported dataset. Key is
// unique within the dataset: the normalized title, suffixed "#2", "#3"
// and so on when the same title occurs more than once.
type TaskRecord struct {
	Key          string     `json:"key"`
	Title        string     `json:"title"`
	NodeType     string     `json:"node_type"`
	Source       string     `json:"source"`
	SourceRef    string     `json:"source_ref"`
	CreatedDate  *time.Time `json:"created_date,omitempty"`
	DeadlineDate *time.Time `json:"deadline_date,omitempty"`
	Description  string     `json:"description,omitempty"`
	Executors    []string   `json:"executors"`
	Managers     []string   `json:"managers"`
	Parents      []string   `json:"parents"`
	IsAPI        bool       `json:"is_api"`
	APICallCount int        `json:"api_call_count"`
}

// CitationRecord is one resolved parent relation, pointing child to
// parent. Both endpoints are resolved to record keys at parse time;
// titles and source refs ride along for reporting.
type CitationRecord struct {
	FromKey       string          `json:"from_key"`
	ToKey         string          `json:"to_key"`
	FromTitle     string          `json:"from_title"`
	ToTitle       string          `json:"to_title"`
	FromSourceRef string          `json:"from_source_ref"`
	ToSourceRef   string          `json:"to_source_ref"`
	Weight        decimal.Decimal `json:"weight"`
}

// UserRecord is one username seen as executor or manager
type UserRecord struct {
	Username string `json:"username"`
}

// ParseWarning flags a row or relation the parser had to work around.
// Row is 1-based and zero when the warning is not tied to one row.
type ParseWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Row     int    `json:"row,omitempty"`
}

// Dataset is a fully parsed task export: records in dataset order (file
// rows first, then synthesized parents sorted by title), resolved
// citations, the sorted user list, and everything the parser warned
// about along the way.
type Dataset struct {
	SourcePath string           `json:"source_path,omitempty"`
	Records    []TaskRecord     `json:"records"`
	Citations  []CitationRecord `json:"citations"`
	Users      []UserRecord     `json:"users"`
	Warnings   []ParseWarning   `json:"warnings,omitempty"`
}

// FirstRecord returns the first record in dataset order, or nil for an
// empty dataset.
func (d *Dataset) FirstRecord() *TaskRecord {
	if len(d.Records) == 0 {
		return nil
	}
	return &d.Records[0]
}

// RecordByKey finds a record by its unique key
func (d *Dataset) RecordByKey(key string) *TaskRecord {
	for i := range d.Records {
		if d.Records[i].Key == key {
			return &d.Records[i]
		}
	}
	return nil
}

// RecordByTitle finds the first record carrying the given title.
// Duplicate titles resolve to the earliest record, matching how parent
// references resolve.
func (d *Dataset) RecordByTitle(title string) *TaskRecord {
	for i := range d.Records {
		if d.Records[i].Title == title {
			return &d.Records[i]
		}
	}
	return nil
}

// APIRecords returns the records that expose a billable API, in dataset
// order. A record counts only when it is flagged and has seen calls.
func (d *Dataset) APIRecords() []TaskRecord {
	records := make([]TaskRecord, 0)
	for _, r := range d.Records {
		if r.IsAPI && r.APICallCount > 0 {
			records = append(records, r)
		}
	}
	return records
}

// DroppedCitation records a citation the graph builder had to discard
type DroppedCitation struct {
	FromKey string `json:"from_key"`
	ToKey   string `json:"to_key"`
	Reason  string `json:"reason"`
}

// BuildStats summarizes one graph assembly for logs and debug output
type BuildStats struct {
	NodeCount            int               `json:"node_count"`
	EdgeCount            int               `json:"edge_count"`
	NodesWithExecutor    int               `json:"nodes_with_executor"`
	NodesWithoutExecutor int               `json:"nodes_without_executor"`
	DroppedCitations     []DroppedCitation `json:"dropped_citations,omitempty"`
}
