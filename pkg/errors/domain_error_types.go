package errors

import (
	"fmt"
	"strings"
)

// Stable codes for the domain failures the engine and its collaborators
// can produce. Codes are part of the public contract: tests and the CLI
// match on them, messages are free to change.
const (
	CodeDuplicateNode       = "DUPLICATE_NODE"
	CodeDanglingEdge        = "DANGLING_EDGE"
	CodeSelfReferentialEdge = "SELF_REFERENTIAL_EDGE"
	CodeNodeNotFound        = "NODE_NOT_FOUND"

	CodeEmptyIdentifier        = "EMPTY_IDENTIFIER"
	CodeNegativeAmount         = "NEGATIVE_AMOUNT"
	CodeNegativeCitationCount  = "NEGATIVE_CITATION_COUNT"
	CodeNegativeCreativity     = "NEGATIVE_CREATIVITY"
	CodeNegativeHours          = "NEGATIVE_HOURS"
	CodeInvalidPropagationRate = "INVALID_PROPAGATION_RATE"
	CodeInvalidEdgeWeight      = "INVALID_EDGE_WEIGHT"
	CodeInvalidPolicy          = "INVALID_POLICY"

	CodeEmptyDataset = "EMPTY_DATASET"
	CodeMalformedCSV = "MALFORMED_CSV"
	CodeNoAPITasks   = "NO_API_TASKS"
)

// NewDuplicateNodeError reports a node id added to a graph twice.
func NewDuplicateNodeError(nodeID string) *AppError {
	return NewValidationErrorf("duplicate node id %q", nodeID).
		WithCode(CodeDuplicateNode).
		WithDetail("node_id", nodeID)
}

// NewDanglingEdgeError reports an edge endpoint absent from the graph.
func NewDanglingEdgeError(fromID, toID, missingID string) *AppError {
	return NewValidationErrorf("edge %s -> %s references unknown node %q", fromID, toID, missingID).
		WithCode(CodeDanglingEdge).
		WithDetail("from_id", fromID).
		WithDetail("to_id", toID).
		WithDetail("missing_id", missingID)
}

// NewSelfReferentialEdgeError reports an edge from a node to itself.
func NewSelfReferentialEdgeError(nodeID string) *AppError {
	return NewValidationErrorf("node %q cannot cite itself", nodeID).
		WithCode(CodeSelfReferentialEdge).
		WithDetail("node_id", nodeID)
}

// NewNodeNotFoundError reports a lookup of a node id the graph does not hold.
func NewNodeNotFoundError(nodeID string) *AppError {
	return NewNotFoundError(fmt.Sprintf("node %q", nodeID)).
		WithCode(CodeNodeNotFound).
		WithDetail("node_id", nodeID)
}

// NewNegativeAmountError reports a negative total passed to a distribution.
func NewNegativeAmountError(amount string) *AppError {
	return NewValidationErrorf("total amount must be non-negative, got %s", amount).
		WithCode(CodeNegativeAmount).
		WithDetail("amount", amount)
}

// ValidationErrors aggregates multiple validation errors so dataset-level
// checks can report every defect in one pass instead of stopping at the
// first.
type ValidationErrors struct {
	Errors []*AppError `json:"errors"`
}

// NewValidationErrors creates an empty validation errors collection
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Errors: make([]*AppError, 0)}
}

// Add records a field-level validation failure
func (v *ValidationErrors) Add(field string, message string) {
	err := NewValidationError(message).
		WithCode("FIELD_VALIDATION_ERROR").
		WithDetail("field", field)
	v.Errors = append(v.Errors, err)
}

// AddError records a pre-built application error
func (v *ValidationErrors) AddError(err *AppError) {
	v.Errors = append(v.Errors, err)
}

// HasErrors returns true if anything was recorded
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}

	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Message
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// ToMap groups recorded messages by the field they concern, for report
// rendering.
func (v *ValidationErrors) ToMap() map[string][]string {
	result := make(map[string][]string)

	for _, err := range v.Errors {
		field, ok := err.Details["field"].(string)
		if !ok {
			field = "general"
		}
		result[field] = append(result[field], err.Message)
	}

	return result
}
