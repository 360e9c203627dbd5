// Package flow wires the Flow Store Adapter, Flow Model registry,
// Session Store, AI Query Client and the evaluators in
// internal/flow/engine together into the Execution Engine (C8) and
// exposes it over HTTP (C9).
package flow

import (
	"context"
	"fmt"

	"github.com/pytake/flowengine/internal/flow/aiclient"
	"github.com/pytake/flowengine/internal/flow/engine"
	"github.com/pytake/flowengine/internal/flow/sessionstore"
	"github.com/pytake/flowengine/internal/flow/store"
	"github.com/pytake/flowengine/internal/logger"
)

// maxHops bounds a single request's traversal of the graph (§4.8).
const maxHops = 15

// The three literal user-facing strings specified in §9 — preserved
// exactly, since deployments may already match on them.
const (
	msgUnavailable  = "Desculpe, o sistema está temporariamente indisponível."
	msgInternalFlow = "Erro interno no fluxo."
	msgGeneric      = "Erro."
)

// Service is the execution engine: the core loop of §4.8, bound to a
// live flow registry, session store and AI client.
type Service struct {
	registry  *engine.Registry
	sessions  *sessionstore.Store
	store     *store.Store
	ai        *aiclient.Client
	log       *logger.Logger
}

// NewService wires a Service from its collaborators.
func NewService(store *store.Store, ai *aiclient.Client, log *logger.Logger) *Service {
	return &Service{
		registry: engine.NewRegistry(),
		sessions: sessionstore.New(),
		store:    store,
		ai:       ai,
		log:      log,
	}
}

// Reload implements the Flow Store Adapter -> Flow Model swap ->
// Session Store purge pipeline (§4.9). If the new flow's id differs
// from whatever was previously loaded (including "none loaded yet"),
// every session is purged; if it is identical, sessions survive.
func (s *Service) Reload(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("flow store not configured")
	}
	model, err := s.store.LoadActiveFlow(ctx)
	if err != nil {
		return err
	}
	previousID := s.registry.Swap(model)
	if previousID != model.ID {
		s.sessions.Purge()
	}
	return nil
}

// ProcessMessage is the engine's public entry point (§4.8 "Entry
// contract"): given a sender and an inbound trigger string, it
// advances that sender's session and returns the outbound payload, if
// any.
func (s *Service) ProcessMessage(ctx context.Context, senderID, inbound string) *engine.Payload {
	model := s.registry.Current()
	if model == nil {
		if err := s.Reload(ctx); err != nil {
			s.log.Warnf("process_message: no flow loaded and reload failed: %v", err)
			return &engine.Payload{Type: "text", Text: msgUnavailable}
		}
		model = s.registry.Current()
	}

	var result *engine.Payload
	s.sessions.WithSession(senderID, func(existing *sessionstore.Session) *sessionstore.Session {
		sess := existing
		trigger := inbound
		if sess == nil {
			sess = sessionstore.NewSession(model.StartNodeID)
			trigger = engine.TriggerStartFlow
		}
		result, sess = s.run(ctx, model, sess, trigger)
		return sess
	})
	return result
}

// run executes the bounded main loop of §4.8 for one inbound trigger,
// operating on a session already exclusively locked by the caller. It
// returns the payload to emit (nil if none) and the session to
// persist (nil to delete it).
func (s *Service) run(ctx context.Context, model *engine.Model, sess *sessionstore.Session, trigger string) (*engine.Payload, *sessionstore.Session) {
	active := sess.CurrentNodeID
	firstHop := true
	var payload *engine.Payload

	for hop := 0; hop < maxHops; hop++ {
		node, ok := model.Node(active)
		if !ok {
			err := engine.NewNodeError(engine.ErrCodeSessionCorrupt, "node not present in current flow", active)
			s.log.Errorf("process_message: %v", err)
			return &engine.Payload{Type: "text", Text: msgInternalFlow}, nil
		}

		if payload == nil && s.shouldEmit(trigger, node.Type, firstHop) {
			payload = engine.BuildPayload(node, sess.Variables)
		}

		sess.AppendHistory("trigger", active, trigger)

		next, continueTrigger, stop := s.step(ctx, model, node, sess, trigger)
		firstHop = false

		if stop {
			if node.Type.IsUserWaiting() {
				return payload, sess
			}
			return payload, nil
		}
		if next == nil {
			if node.Type.IsUserWaiting() {
				return payload, sess
			}
			return payload, nil
		}

		sess.CurrentNodeID = *next
		sess.AppendHistory("transition", *next, continueTrigger)
		if payload == nil {
			if nextNode, ok := model.Node(*next); ok && nextNode.Type.IsPayloadProducing() {
				payload = engine.BuildPayload(nextNode, sess.Variables)
			}
		}

		active = *next
		trigger = continueTrigger
	}

	err := engine.NewNodeError(engine.ErrCodeHopCapReached, "traversal exceeded maxHops", active)
	s.log.Errorf("process_message: %v", err)
	return &engine.Payload{Type: "text", Text: msgGeneric}, nil
}

// shouldEmit implements the payload-capture trigger conditions of
// §4.8 step 2.
func (s *Service) shouldEmit(trigger string, kind engine.NodeKind, firstHop bool) bool {
	if trigger == engine.TriggerStartFlow {
		return true
	}
	if firstHop && (kind.IsMessageKind() || kind == engine.NodeKindEndFlow || kind == engine.NodeKindWaitInput) {
		return true
	}
	if trigger == engine.TriggerTransition &&
		(kind == engine.NodeKindWaitInput || kind == engine.NodeKindButtonMessage || kind == engine.NodeKindListMessage) {
		return true
	}
	return false
}

// step dispatches a single node by type (§4.8 step 3) and returns the
// next node id to move to (nil if the loop should stop at this node),
// the trigger to carry into that next node, and whether to stop
// entirely without transitioning.
func (s *Service) step(ctx context.Context, model *engine.Model, node *engine.NodeDef, sess *sessionstore.Session, trigger string) (next *string, nextTrigger string, stop bool) {
	isExternal := !isInternal(trigger)

	switch node.Type {
	case engine.NodeKindWaitInput:
		if !isExternal {
			return nil, "", true
		}
		varName := node.GetString("variableName")
		if varName == "" {
			varName = "lastInput"
		}
		sess.Variables[varName] = trigger
		n := model.NextEdge(node.ID, trigger, node.Type, true, s.warn)
		return n, engine.TriggerTransition, false

	case engine.NodeKindSetVariable:
		name := engine.SubstituteString(node.GetString("variableName"), sess.Variables)
		value := engine.SubstituteString(node.GetString("value"), sess.Variables)
		if name != "" {
			sess.Variables[name] = value
		}
		n := model.NextEdge(node.ID, "", node.Type, false, s.warn)
		return n, engine.TriggerTransition, false

	case engine.NodeKindGPTQuery:
		s.runGPTQuery(ctx, node, sess)
		n := model.NextEdge(node.ID, engine.TriggerError, node.Type, false, s.warn)
		if n == nil {
			n = model.NextEdge(node.ID, "", node.Type, false, s.warn)
		} else {
			// an error edge only applies when the call actually
			// failed; otherwise fall through to the default edge.
			if !isGPTError(sess.Variables[node.GetString("saveResponseTo")]) {
				n = model.NextEdge(node.ID, "", node.Type, false, s.warn)
			}
		}
		return n, engine.TriggerTransition, false

	case engine.NodeKindCondition:
		variableName := node.GetString("variableName")
		comparison := node.GetString("comparison")
		value := node.GetString("value")
		handle := engine.HandleFalse
		if engine.EvaluateCondition(variableName, comparison, value, sess.Variables, s.warn) {
			handle = engine.HandleTrue
		}
		n := model.NextEdgeByHandle(node.ID, handle)
		if n == nil {
			s.warn(fmt.Sprintf("condition node %q missing %s edge", node.ID, handle))
		}
		return n, engine.TriggerTransition, false

	case engine.NodeKindEndFlow:
		return nil, "", true

	case engine.NodeKindStart:
		n := model.NextEdge(node.ID, "", node.Type, false, s.warn)
		return n, engine.TriggerTransition, false

	default:
		if node.Type.IsMessageKind() {
			if node.Type.IsInteractive() && isExternal {
				n := model.NextEdge(node.ID, trigger, node.Type, true, s.warn)
				return n, engine.TriggerTransition, false
			}
			n := model.NextEdge(node.ID, "", node.Type, false, s.warn)
			return n, engine.TriggerTransition, n == nil
		}
		// unknown node kind: try the default edge, otherwise stop.
		s.warn(fmt.Sprintf("unknown node type %q at node %q", node.Type, node.ID))
		n := model.NextEdge(node.ID, "", node.Type, false, s.warn)
		return n, engine.TriggerTransition, n == nil
	}
}

func (s *Service) warn(msg string) {
	s.log.Warnf("flow engine: %s", msg)
}

func isInternal(trigger string) bool {
	switch trigger {
	case engine.TriggerStartFlow, engine.TriggerTransition, engine.TriggerError:
		return true
	}
	return false
}

func isGPTError(value string) bool {
	for _, prefix := range []string{aiErrorPrefixTimeout, aiErrorPrefixConn, aiErrorPrefixUnexpected, aiErrorPrefixAPI, aiErrorPrefixConfigIA, aiErrorPrefixConfigCtrl, aiErrorPrefixKey} {
		if len(value) >= len(prefix) && value[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

const (
	aiErrorPrefixTimeout    = "ERRO_IA_TIMEOUT"
	aiErrorPrefixConn       = "ERRO_IA_CONEXAO"
	aiErrorPrefixUnexpected = "ERRO_IA_INESPERADO"
	aiErrorPrefixAPI        = "ERRO_IA_API"
	aiErrorPrefixConfigIA   = "ERRO_CONFIG_IA"
	aiErrorPrefixConfigCtrl = "ERRO_CONFIG_CTRL"
	aiErrorPrefixKey        = "ERRO_IA: API Key"
)

// Ready reports whether a flow is currently loaded, for /health.
func (s *Service) Ready() bool {
	return s.registry.Current() != nil
}

// PingDB reports whether the database connection backing the flow
// store is reachable, for /health.
func (s *Service) PingDB(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("flow store not configured")
	}
	return s.store.Ping(ctx)
}
