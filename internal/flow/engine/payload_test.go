package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayloadAbsentFieldYieldsNil(t *testing.T) {
	node := &NodeDef{ID: "wait", Type: NodeKindWaitInput, Data: map[string]any{"variableName": "name"}}
	assert.Nil(t, BuildPayload(node, map[string]string{}))
}

func TestBuildPayloadPresentEmptyFieldYieldsPayload(t *testing.T) {
	node := &NodeDef{ID: "hi", Type: NodeKindTextMessage, Data: map[string]any{"text": ""}}
	p := BuildPayload(node, map[string]string{})
	require.NotNil(t, p)
	assert.Equal(t, "", p.Text)
}

func TestBuildPayloadExpandsTemplate(t *testing.T) {
	node := &NodeDef{ID: "hi", Type: NodeKindTextMessage, Data: map[string]any{"text": "hi {{name}}"}}
	p := BuildPayload(node, map[string]string{"name": "Alice"})
	require.NotNil(t, p)
	assert.Equal(t, "hi Alice", p.Text)
}

func TestBuildPayloadEndFlowAbsentTextYieldsNil(t *testing.T) {
	node := &NodeDef{ID: "end", Type: NodeKindEndFlow, Data: map[string]any{}}
	assert.Nil(t, BuildPayload(node, map[string]string{}))
}

func TestBuildPayloadUnrecognizedKindYieldsNil(t *testing.T) {
	node := &NodeDef{ID: "x", Type: NodeKindImageMessage, Data: map[string]any{"url": "http://example/x.png"}}
	assert.Nil(t, BuildPayload(node, map[string]string{}))
}
