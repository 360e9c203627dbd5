package engine

import "fmt"

// Error codes used internally. /process_message never returns them
// (it only emits the canned user-facing payload strings, see
// internal/flow/service.go); a failed /reload_flow does carry the
// error text, FLOW_LOAD_FAILURE code included, in its "message" field.
const (
	ErrCodeLoadFailure      = "FLOW_LOAD_FAILURE"
	ErrCodeSessionCorrupt   = "SESSION_CORRUPT"
	ErrCodeHopCapReached    = "HOP_CAP_REACHED"
	ErrCodeNodeMisconfigure = "NODE_MISCONFIGURED"
)

// FlowError carries a code, a human message, and the node that raised
// it, mirroring the shape the teacher's engine.FlowError used for its
// richer CRUD surface — trimmed here to what the execution loop
// actually needs to report.
type FlowError struct {
	Code   string
	Msg    string
	NodeID string
}

func (e *FlowError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Msg, e.NodeID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// NewFlowError builds a FlowError not tied to any particular node
// (flow load failures).
func NewFlowError(code, msg string) *FlowError {
	return &FlowError{Code: code, Msg: msg}
}

// NewNodeError builds a FlowError attributed to a specific node.
func NewNodeError(code, msg, nodeID string) *FlowError {
	return &FlowError{Code: code, Msg: msg, NodeID: nodeID}
}
