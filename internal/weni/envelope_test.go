package weni

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchAnswerBroadcastFrame(t *testing.T) {
	frame := []byte(`{
		"type": "preview",
		"message": {
			"type": "preview",
			"content": {
				"type": "broadcast",
				"message": "Test response from Weni agent"
			}
		}
	}`)

	text, ok := matchAnswer(frame)
	assert.True(t, ok)
	assert.Equal(t, "Test response from Weni agent", text)
}

func TestMatchAnswerIgnoresOtherFrames(t *testing.T) {
	frames := [][]byte{
		[]byte(`{"type":"preview","message":{"type":"typing"}}`),
		[]byte(`{"type":"preview","message":{"type":"preview","content":{"type":"trace","message":"thinking"}}}`),
		[]byte(`{"type":"preview","message":{"type":"preview","content":{"type":"broadcast","message":""}}}`),
		[]byte(`{"type":"ping"}`),
		[]byte(`{}`),
		[]byte(`not json at all`),
		[]byte(``),
	}

	for _, frame := range frames {
		_, ok := matchAnswer(frame)
		assert.False(t, ok, "frame should be ignored: %s", frame)
	}
}
