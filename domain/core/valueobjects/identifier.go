package valueobjects

import (
	"encoding/json"
	"errors"
	"strings"

	pkgerrors "revshare/pkg/errors"
)

// NodeID is a value object identifying a node in the citation graph.
// Ids come from upstream task datasets, so any non-blank string is
// acceptable; uniqueness is enforced by the graph aggregate.
type NodeID struct {
	value string
}

// NewNodeID creates a NodeID from a raw identifier
func NewNodeID(id string) (NodeID, error) {
	if strings.TrimSpace(id) == "" {
		return NodeID{}, pkgerrors.NewValidationError("node id cannot be empty").
			WithCode(pkgerrors.CodeEmptyIdentifier)
	}
	return NodeID{value: id}, nil
}

// String returns the string representation of the NodeID
func (id NodeID) String() string {
	return id.value
}

// Equals checks if two NodeIDs are equal
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// Less orders NodeIDs lexicographically, the tie-break order used
// everywhere deterministic output is required.
func (id NodeID) Less(other NodeID) bool {
	return id.value < other.value
}

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id NodeID) MarshalJSON() ([]byte, error) {
	return marshalIdentifier(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *NodeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	value, err := unmarshalIdentifier(data, "NodeID")
	if err != nil {
		return err
	}
	id.value = value
	return nil
}

// UserID is a value object identifying the creator credited by an
// allocation.
type UserID struct {
	value string
}

// NewUserID creates a UserID from a raw identifier
func NewUserID(id string) (UserID, error) {
	if strings.TrimSpace(id) == "" {
		return UserID{}, pkgerrors.NewValidationError("user id cannot be empty").
			WithCode(pkgerrors.CodeEmptyIdentifier)
	}
	return UserID{value: id}, nil
}

// String returns the string representation of the UserID
func (id UserID) String() string {
	return id.value
}

// Equals checks if two UserIDs are equal
func (id UserID) Equals(other UserID) bool {
	return id.value == other.value
}

// IsZero checks if the UserID is the zero value
func (id UserID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id UserID) MarshalJSON() ([]byte, error) {
	return marshalIdentifier(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *UserID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	value, err := unmarshalIdentifier(data, "UserID")
	if err != nil {
		return err
	}
	id.value = value
	return nil
}

// TriggerID is a value object naming the revenue event a distribution
// run belongs to. Every allocation produced by a run carries it.
type TriggerID struct {
	value string
}

// NewTriggerID creates a TriggerID from a raw identifier
func NewTriggerID(id string) (TriggerID, error) {
	if strings.TrimSpace(id) == "" {
		return TriggerID{}, pkgerrors.NewValidationError("trigger id cannot be empty").
			WithCode(pkgerrors.CodeEmptyIdentifier)
	}
	return TriggerID{value: id}, nil
}

// String returns the string representation of the TriggerID
func (id TriggerID) String() string {
	return id.value
}

// Equals checks if two TriggerIDs are equal
func (id TriggerID) Equals(other TriggerID) bool {
	return id.value == other.value
}

// IsZero checks if the TriggerID is the zero value
func (id TriggerID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id TriggerID) MarshalJSON() ([]byte, error) {
	return marshalIdentifier(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *TriggerID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	value, err := unmarshalIdentifier(data, "TriggerID")
	if err != nil {
		return err
	}
	id.value = value
	return nil
}

// Identifiers can carry arbitrary task titles, so JSON encoding goes
// through encoding/json rather than naive quoting.
func marshalIdentifier(value string) ([]byte, error) {
	return json.Marshal(value)
}

func unmarshalIdentifier(data []byte, kind string) (string, error) {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return "", errors.New(kind + " must be a string")
	}
	return value, nil
}
