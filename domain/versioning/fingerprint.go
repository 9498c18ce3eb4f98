package versioning

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"revshare/domain/core/aggregates"
)

// Fingerprint computes the canonical SHA-256 of a citation graph. Two
// graphs with the same nodes, attributes, and weighted citations always
// hash the same regardless of input order, so the fingerprint names the
// exact dataset a distribution ran over.
func Fingerprint(g *aggregates.CitationGraph) string {
	if g == nil {
		return ""
	}

	h := sha256.New()
	for _, node := range g.Nodes() {
		estimated, actual := "-", "-"
		if v, ok := node.EstimatedHours(); ok {
			estimated = v.String()
		}
		if v, ok := node.ActualHours(); ok {
			actual = v.String()
		}
		fmt.Fprintf(h, "node|%s|%s|%s|%d|%s|%s|%s|%s\n",
			node.ID(),
			node.CreatorID(),
			node.CreatedAt().UTC().Format(time.RFC3339),
			node.CitationCount(),
			node.CreativityFactor(),
			node.PropagationRate(),
			estimated,
			actual,
		)
	}
	for _, edge := range g.Edges() {
		fmt.Fprintf(h, "edge|%s|%s|%s\n", edge.FromID(), edge.ToID(), edge.Weight())
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Snapshot records the identity of a graph at a point in time. It rides
// along on reports and seed scripts so output can be traced back to the
// dataset that produced it.
type Snapshot struct {
	Fingerprint string    `json:"fingerprint"`
	NodeCount   int       `json:"node_count"`
	EdgeCount   int       `json:"edge_count"`
	TakenAt     time.Time `json:"taken_at"`
}

// NewSnapshot fingerprints a graph and stamps the capture instant
func NewSnapshot(g *aggregates.CitationGraph, takenAt time.Time) Snapshot {
	return Snapshot{
		Fingerprint: Fingerprint(g),
		NodeCount:   g.NodeCount(),
		EdgeCount:   g.EdgeCount(),
		TakenAt:     takenAt.UTC(),
	}
}

// Describe renders a short human-readable identity line
func (s Snapshot) Describe() string {
	fingerprint := s.Fingerprint
	if len(fingerprint) > 12 {
		fingerprint = fingerprint[:12]
	}
	return fmt.Sprintf("graph %s (%d nodes, %d edges)", fingerprint, s.NodeCount, s.EdgeCount)
}
