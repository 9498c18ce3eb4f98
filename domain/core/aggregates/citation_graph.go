package aggregates

import (
	"sort"

	"revshare/domain/core/entities"
	"revshare/domain/core/valueobjects"
	pkgerrors "revshare/pkg/errors"
)

// CitationGraph is the aggregate root for a citation network: every
// node a distribution run can touch, plus the weighted citations
// between them. The aggregate is built once from a full node and edge
// set, validated, and never mutated afterwards, so reads need no
// locking and repeated runs see the same adjacency order.
type CitationGraph struct {
	nodesByID     map[valueobjects.NodeID]*entities.Node
	outgoing      map[valueobjects.NodeID][]*entities.Edge
	incomingCount map[valueobjects.NodeID]int
	edgeCount     int
}

// NewCitationGraph builds a graph from the given nodes and edges.
// Construction fails on the first duplicate node id, self-loop, or edge
// endpoint that is not in the node set. Outgoing adjacency lists are
// sorted by (cited id, weight) so traversal order is deterministic.
func NewCitationGraph(nodes []*entities.Node, edges []*entities.Edge) (*CitationGraph, error) {
	g := &CitationGraph{
		nodesByID:     make(map[valueobjects.NodeID]*entities.Node, len(nodes)),
		outgoing:      make(map[valueobjects.NodeID][]*entities.Edge),
		incomingCount: make(map[valueobjects.NodeID]int),
	}

	for _, node := range nodes {
		if node == nil {
			return nil, pkgerrors.NewValidationError("node cannot be nil")
		}
		if _, exists := g.nodesByID[node.ID()]; exists {
			return nil, pkgerrors.NewDuplicateNodeError(node.ID().String())
		}
		g.nodesByID[node.ID()] = node
	}

	for _, edge := range edges {
		if edge == nil {
			return nil, pkgerrors.NewValidationError("edge cannot be nil")
		}
		if edge.FromID().Equals(edge.ToID()) {
			return nil, pkgerrors.NewSelfReferentialEdgeError(edge.FromID().String())
		}
		if _, exists := g.nodesByID[edge.FromID()]; !exists {
			return nil, pkgerrors.NewDanglingEdgeError(edge.FromID().String(), edge.ToID().String(), edge.FromID().String())
		}
		if _, exists := g.nodesByID[edge.ToID()]; !exists {
			return nil, pkgerrors.NewDanglingEdgeError(edge.FromID().String(), edge.ToID().String(), edge.ToID().String())
		}

		g.outgoing[edge.FromID()] = append(g.outgoing[edge.FromID()], edge)
		g.incomingCount[edge.ToID()]++
		g.edgeCount++
	}

	for _, list := range g.outgoing {
		sortEdges(list)
	}

	return g, nil
}

// sortEdges orders an adjacency list by cited node id, then by the
// string form of the weight, matching the engine's canonical order.
func sortEdges(list []*entities.Edge) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].ToID().Equals(list[j].ToID()) {
			return list[i].ToID().Less(list[j].ToID())
		}
		return list[i].Weight().String() < list[j].Weight().String()
	})
}

// GetNode retrieves a node by id
func (g *CitationGraph) GetNode(id valueobjects.NodeID) (*entities.Node, error) {
	node, exists := g.nodesByID[id]
	if !exists {
		return nil, pkgerrors.NewNodeNotFoundError(id.String())
	}
	return node, nil
}

// HasNode checks if a node exists without error
func (g *CitationGraph) HasNode(id valueobjects.NodeID) bool {
	_, exists := g.nodesByID[id]
	return exists
}

// OutgoingEdges returns the citations leaving a node in canonical
// order. The slice is a copy; callers may not mutate adjacency.
func (g *CitationGraph) OutgoingEdges(id valueobjects.NodeID) []*entities.Edge {
	list := g.outgoing[id]
	edges := make([]*entities.Edge, len(list))
	copy(edges, list)
	return edges
}

// IncomingCitationCount returns the observed in-degree of a node
func (g *CitationGraph) IncomingCitationCount(id valueobjects.NodeID) int {
	return g.incomingCount[id]
}

// Nodes returns all nodes sorted by id
func (g *CitationGraph) Nodes() []*entities.Node {
	nodes := make([]*entities.Node, 0, len(g.nodesByID))
	for _, node := range g.nodesByID {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID().Less(nodes[j].ID())
	})
	return nodes
}

// Edges returns all edges sorted by (from, to, weight)
func (g *CitationGraph) Edges() []*entities.Edge {
	edges := make([]*entities.Edge, 0, g.edgeCount)
	for _, list := range g.outgoing {
		edges = append(edges, list...)
	}
	sort.Slice(edges, func(i, j int) bool {
		if !edges[i].FromID().Equals(edges[j].FromID()) {
			return edges[i].FromID().Less(edges[j].FromID())
		}
		if !edges[i].ToID().Equals(edges[j].ToID()) {
			return edges[i].ToID().Less(edges[j].ToID())
		}
		return edges[i].Weight().String() < edges[j].Weight().String()
	})
	return edges
}

// NodeCount returns the number of nodes in the graph
func (g *CitationGraph) NodeCount() int {
	return len(g.nodesByID)
}

// EdgeCount returns the number of edges in the graph
func (g *CitationGraph) EdgeCount() int {
	return g.edgeCount
}
