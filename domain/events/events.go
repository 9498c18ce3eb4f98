package events

import (
	"time"

	"revshare/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// GraphImported is raised when a citation graph has been assembled from
// an external dataset and is ready for distribution runs.
type GraphImported struct {
	BaseEvent
	Fingerprint      string `json:"fingerprint"`
	SourcePath       string `json:"source_path"`
	NodeCount        int    `json:"node_count"`
	EdgeCount        int    `json:"edge_count"`
	DroppedCitations int    `json:"dropped_citations"`
}

// NewGraphImported creates a GraphImported event
func NewGraphImported(fingerprint, sourcePath string, nodeCount, edgeCount, droppedCitations int, timestamp time.Time) GraphImported {
	return GraphImported{
		BaseEvent: BaseEvent{
			AggregateID: fingerprint,
			EventType:   "graph.imported",
			Timestamp:   timestamp,
			Version:     1,
		},
		Fingerprint:      fingerprint,
		SourcePath:       sourcePath,
		NodeCount:        nodeCount,
		EdgeCount:        edgeCount,
		DroppedCitations: droppedCitations,
	}
}

// RevenueDistributed is raised after a distribution run has produced
// its final allocation list.
type RevenueDistributed struct {
	BaseEvent
	TriggerID       valueobjects.TriggerID `json:"trigger_id"`
	EntryNodeID     valueobjects.NodeID    `json:"entry_node_id"`
	TotalAmount     valueobjects.Money     `json:"total_amount"`
	AllocationCount int                    `json:"allocation_count"`
	Fingerprint     string                 `json:"fingerprint"`
}

// NewRevenueDistributed creates a RevenueDistributed event
func NewRevenueDistributed(triggerID valueobjects.TriggerID, entryNodeID valueobjects.NodeID, total valueobjects.Money, allocationCount int, fingerprint string, timestamp time.Time) RevenueDistributed {
	return RevenueDistributed{
		BaseEvent: BaseEvent{
			AggregateID: triggerID.String(),
			EventType:   "revenue.distributed",
			Timestamp:   timestamp,
			Version:     1,
		},
		TriggerID:       triggerID,
		EntryNodeID:     entryNodeID,
		TotalAmount:     total,
		AllocationCount: allocationCount,
		Fingerprint:     fingerprint,
	}
}

// SeedScriptGenerated is raised when a SQL seed script has been written
type SeedScriptGenerated struct {
	BaseEvent
	Fingerprint    string `json:"fingerprint"`
	OutputPath     string `json:"output_path"`
	StatementCount int    `json:"statement_count"`
}

// NewSeedScriptGenerated creates a SeedScriptGenerated event
func NewSeedScriptGenerated(fingerprint, outputPath string, statementCount int, timestamp time.Time) SeedScriptGenerated {
	return SeedScriptGenerated{
		BaseEvent: BaseEvent{
			AggregateID: fingerprint,
			EventType:   "seed.script_generated",
			Timestamp:   timestamp,
			Version:     1,
		},
		Fingerprint:    fingerprint,
		OutputPath:     outputPath,
		StatementCount: statementCount,
	}
}
