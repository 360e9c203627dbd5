package engine

import (
	"encoding/json"
	"fmt"

	"github.com/pytake/flowengine/internal/logger"
)

// Model is the immutable, read-mostly representation of a loaded flow:
// nodes indexed by id, an adjacency index of outgoing edges, and the
// resolved start node. A Model is never mutated after construction —
// reload produces a new one and swaps it into the Registry.
type Model struct {
	ID          string
	Name        string
	Nodes       map[string]*NodeDef
	StartNodeID string
	edgesByNode map[string][]EdgeDef
}

// Node looks up a node by id.
func (m *Model) Node(id string) (*NodeDef, bool) {
	n, ok := m.Nodes[id]
	return n, ok
}

// OutgoingEdges returns the edges leaving nodeID, in the order they
// were declared in the stored `edges` array (insertion order is the
// tie-break the edge resolver relies on).
func (m *Model) OutgoingEdges(nodeID string) []EdgeDef {
	return m.edgesByNode[nodeID]
}

// ParseModel decodes the raw `elements` JSON payload into a Model,
// including start-node resolution (§4.1). log receives human-readable
// warnings for ambiguous cases; it may be nil.
func ParseModel(id, name string, raw []byte, log *logger.Logger) (*Model, error) {
	var g rawGraph
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode flow elements: %w", err)
	}
	if len(g.Nodes) == 0 {
		return nil, fmt.Errorf("flow %s has no nodes", id)
	}

	nodes := make(map[string]*NodeDef, len(g.Nodes))
	for i := range g.Nodes {
		n := g.Nodes[i]
		if n.Type == "" {
			n.Type = NodeKindUnknown
		}
		nodes[n.ID] = &n
	}

	edgesByNode := make(map[string][]EdgeDef, len(g.Nodes))
	targets := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		edgesByNode[e.Source] = append(edgesByNode[e.Source], e)
		targets[e.Target] = true
	}

	startID, err := resolveStartNode(g.Nodes, nodes, targets, log)
	if err != nil {
		return nil, err
	}

	return &Model{
		ID:          id,
		Name:        name,
		Nodes:       nodes,
		StartNodeID: startID,
		edgesByNode: edgesByNode,
	}, nil
}

// resolveStartNode implements the heuristic of §4.1, in order:
// explicit startNode type, else first orphan node (not an edge
// target), else the first node in the list with a warning.
func resolveStartNode(ordered []NodeDef, byID map[string]*NodeDef, targets map[string]bool, log *logger.Logger) (string, error) {
	for _, n := range ordered {
		if n.Type == NodeKindStart {
			return n.ID, nil
		}
	}

	for _, n := range ordered {
		if !targets[n.ID] {
			return n.ID, nil
		}
	}

	first := ordered[0].ID
	if log != nil {
		log.Warnf("flow: no startNode and no orphan node found, falling back to first node %q", first)
	}
	if _, ok := byID[first]; !ok {
		return "", fmt.Errorf("unresolvable start node")
	}
	return first, nil
}
