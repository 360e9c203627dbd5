package engine

// NextEdge implements the selection priority of §4.5: an explicit
// handle match, then the waitInput external-input fallback, then the
// internal error edge, then any default-labeled edge, in that order.
// condition nodes bypass this resolver entirely (§4.8 picks
// source-true/source-false directly).
func (m *Model) NextEdge(nodeID, trigger string, sourceKind NodeKind, triggerIsExternal bool, warn func(string)) *string {
	edges := m.edgesByNode[nodeID]
	if len(edges) == 0 {
		return nil
	}

	if trigger != "" && !isInternalTrigger(trigger) {
		for _, e := range edges {
			if e.SourceHandle == trigger {
				target := e.Target
				return &target
			}
		}
	}

	if sourceKind == NodeKindWaitInput && triggerIsExternal {
		if t := findHandle(edges, HandleReceived); t != nil {
			return t
		}
	}

	if trigger == TriggerError {
		if t := findHandle(edges, HandleError); t != nil {
			return t
		}
	}

	return findDefaultHandle(edges, warn)
}

func findHandle(edges []EdgeDef, handle string) *string {
	for _, e := range edges {
		if e.SourceHandle == handle {
			target := e.Target
			return &target
		}
	}
	return nil
}

func findDefaultHandle(edges []EdgeDef, warn func(string)) *string {
	matches := 0
	var first *string
	for _, e := range edges {
		if isDefaultHandle(e.SourceHandle) {
			matches++
			if first == nil {
				target := e.Target
				first = &target
			}
		}
	}
	if matches > 1 && warn != nil {
		warn("edge resolver: multiple default-handle edges, using first encountered")
	}
	return first
}

// NextEdgeByHandle picks the outgoing edge whose sourceHandle equals
// handle literally, used directly by condition nodes for
// source-true/source-false dispatch.
func (m *Model) NextEdgeByHandle(nodeID, handle string) *string {
	return findHandle(m.edgesByNode[nodeID], handle)
}
