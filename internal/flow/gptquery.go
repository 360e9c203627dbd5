package flow

import (
	"context"
	"fmt"

	"github.com/pytake/flowengine/internal/flow/aiclient"
	"github.com/pytake/flowengine/internal/flow/engine"
	"github.com/pytake/flowengine/internal/flow/sessionstore"
)

// runGPTQuery implements the gptQuery node's dispatch (§4.6, §4.8):
// build the outbound request from template-expanded node config, call
// the AI client, and store the outcome into the configured variable.
// The result is always stored; callers never see a Go error here.
func (s *Service) runGPTQuery(ctx context.Context, node *engine.NodeDef, sess *sessionstore.Session) {
	prompt := node.GetString("prompt")
	saveTo := node.GetString("saveResponseTo")
	apiKeyVar := node.GetString("apiKeyVariable")

	if prompt == "" || saveTo == "" || apiKeyVar == "" {
		target := saveTo
		if target == "" {
			target = "gpt_error"
		}
		sess.Variables[target] = fmt.Sprintf("%s: nó gptQuery mal configurado (prompt/saveResponseTo/apiKeyVariable ausente).", aiErrorPrefixConfigIA)
		s.warn(engine.NewNodeError(engine.ErrCodeNodeMisconfigure, "gptQuery missing prompt/saveResponseTo/apiKeyVariable", node.ID).Error())
		return
	}

	apiKey, ok := sess.Variables[apiKeyVar]
	if !ok || apiKey == "" {
		sess.Variables[saveTo] = fmt.Sprintf("ERRO_IA: API Key '%s' não definida.", apiKeyVar)
		return
	}

	req := aiclient.Request{
		Prompt: engine.SubstituteString(prompt, sess.Variables),
		APIKey: apiKey,
	}
	if sysMsg := node.GetString("systemMessage"); sysMsg != "" {
		expanded := engine.SubstituteString(sysMsg, sess.Variables)
		req.SystemMessage = &expanded
	}
	if model := node.GetString("model"); model != "" {
		req.Model = &model
	}
	if temp, ok := node.GetFloat("temperature"); ok {
		req.Temperature = &temp
	}
	if maxTokens, ok := node.GetFloat("maxTokens"); ok {
		v := int(maxTokens)
		req.MaxTokens = &v
	}

	sess.Variables[saveTo] = s.ai.Query(ctx, req)
}
