// Package engine holds the flow model, the per-request evaluators
// (template, condition, edge resolution) and the Registry that holds
// the currently active model.
package engine

import "encoding/json"

// NodeKind is the closed set of node types the engine understands.
// A type string outside this set still parses and is kept as written
// (a missing type is tagged NodeKindUnknown), so unrecognized flow
// exports remain loadable.
type NodeKind string

const (
	NodeKindStart           NodeKind = "startNode"
	NodeKindTextMessage     NodeKind = "textMessage"
	NodeKindImageMessage    NodeKind = "imageMessage"
	NodeKindAudioMessage    NodeKind = "audioMessage"
	NodeKindVideoMessage    NodeKind = "videoMessage"
	NodeKindFileMessage     NodeKind = "fileMessage"
	NodeKindLocationMessage NodeKind = "locationMessage"
	NodeKindButtonMessage   NodeKind = "buttonMessage"
	NodeKindListMessage     NodeKind = "listMessage"
	NodeKindWaitInput       NodeKind = "waitInput"
	NodeKindSetVariable     NodeKind = "setVariable"
	NodeKindCondition       NodeKind = "condition"
	NodeKindGPTQuery        NodeKind = "gptQuery"
	NodeKindEndFlow         NodeKind = "endFlow"
	NodeKindUnknown         NodeKind = "unknown"
)

// IsMessageKind reports whether kind is one of the message-sending
// variants dispatched identically in the main loop (§4.8).
func (k NodeKind) IsMessageKind() bool {
	switch k {
	case NodeKindTextMessage, NodeKindImageMessage, NodeKindAudioMessage,
		NodeKindVideoMessage, NodeKindFileMessage, NodeKindLocationMessage,
		NodeKindButtonMessage, NodeKindListMessage:
		return true
	}
	return false
}

// IsInteractive reports whether kind waits for a handle-carrying user
// interaction (a button tap or list selection) rather than free text.
func (k NodeKind) IsInteractive() bool {
	return k == NodeKindButtonMessage || k == NodeKindListMessage
}

// IsUserWaiting reports whether a session may legitimately remain
// parked on a node of this kind between requests.
func (k NodeKind) IsUserWaiting() bool {
	return k == NodeKindWaitInput || k == NodeKindButtonMessage || k == NodeKindListMessage
}

// NodeDef is a node as decoded from the stored flow JSON: an id, a
// kind tag, and kind-specific data kept as a raw map so unrecognized
// keys survive unchanged for forward compatibility.
type NodeDef struct {
	ID   string         `json:"id"`
	Type NodeKind       `json:"type"`
	Data map[string]any `json:"data"`
}

// EdgeDef is a directed connection between two nodes, optionally
// labeled with a handle used by the edge resolver to disambiguate
// multiple outgoing edges.
type EdgeDef struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle"`
}

// rawGraph is the shape of the `elements` JSON column.
type rawGraph struct {
	Nodes []NodeDef `json:"nodes"`
	Edges []EdgeDef `json:"edges"`
}

// Internal trigger sentinels. These drive the main loop and never
// appear as a literal sourceHandle an author wrote by hand.
const (
	TriggerStartFlow  = "_internal_start_flow_"
	TriggerTransition = "_internal_transition_"
	TriggerError      = "_internal_error_"
)

// Handle names are part of the external flow-authoring contract; they
// must be treated as literal strings, never renamed.
const (
	HandleReceived   = "source-received"
	HandleError      = "source-error"
	HandleTrue       = "source-true"
	HandleFalse      = "source-false"
	HandleDefault    = "source-default"
	HandleBottom     = "source-bottom"
	HandleSuccess    = "source-success"
	HandlePlain      = "source"
)

func isInternalTrigger(trigger string) bool {
	return trigger == TriggerStartFlow || trigger == TriggerTransition || trigger == TriggerError
}

func isDefaultHandle(handle string) bool {
	switch handle {
	case "", HandlePlain, HandleBottom, HandleDefault, HandleSuccess:
		return true
	}
	return false
}

// GetString extracts a string field from the node's data map, or the
// zero value if absent or not a string.
func (n *NodeDef) GetString(key string) string {
	if n.Data == nil {
		return ""
	}
	v, ok := n.Data[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetStringPtr returns a pointer to the field's string value, or nil
// if the key is entirely absent (as opposed to present-but-empty).
func (n *NodeDef) GetStringPtr(key string) *string {
	if n.Data == nil {
		return nil
	}
	v, ok := n.Data[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// GetFloat extracts a numeric field, accepting json.Number or float64.
func (n *NodeDef) GetFloat(key string) (float64, bool) {
	if n.Data == nil {
		return 0, false
	}
	v, ok := n.Data[key]
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}
