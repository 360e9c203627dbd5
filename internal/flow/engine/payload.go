package engine

// Payload is the outbound message the HTTP surface returns to the
// messaging gateway.
type Payload struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// BuildPayload implements §4.8.1: only textMessage, waitInput, and
// endFlow produce a payload in this core; every other recognized kind
// returns nil (an extension point — a deployment wanting payloads for
// imageMessage et al. supplies its own generator). A field that is
// present but empty still yields a payload ("" is a valid message
// body); a field that is entirely absent yields no payload at all
// (§4.3 "null input yields null output", §4.8.1 "a null expansion
// produces no payload").
func BuildPayload(node *NodeDef, vars map[string]string) *Payload {
	var field *string
	switch node.Type {
	case NodeKindTextMessage, NodeKindEndFlow:
		field = node.GetStringPtr("text")
	case NodeKindWaitInput:
		field = node.GetStringPtr("message")
	default:
		return nil
	}
	if field == nil {
		return nil
	}
	return &Payload{Type: "text", Text: SubstituteString(*field, vars)}
}

// IsPayloadProducing reports whether kind is one of the node types
// BuildPayload knows how to render, used by the engine's speculative
// next-node payload generation (§4.8 step 4).
func (k NodeKind) IsPayloadProducing() bool {
	return k == NodeKindTextMessage || k == NodeKindWaitInput || k == NodeKindEndFlow
}
