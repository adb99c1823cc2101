package weni

import "encoding/json"

// The preview channel multiplexes typing indicators, trace events, and the
// final broadcast answer over one socket. Only the nested content
// discriminator is trusted: frames without a broadcast payload are ignored
// and listening continues.
const broadcastContentType = "broadcast"

type envelope struct {
	Type    string          `json:"type"`
	Message envelopeMessage `json:"message"`
}

type envelopeMessage struct {
	Type    string          `json:"type"`
	Content envelopeContent `json:"content"`
}

type envelopeContent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// matchAnswer parses an inbound frame and returns the human-readable payload
// when the frame carries the final broadcast answer. Unparseable frames are
// treated like any other non-matching frame.
func matchAnswer(frame []byte) (string, bool) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return "", false
	}
	if env.Message.Content.Type != broadcastContentType || env.Message.Content.Message == "" {
		return "", false
	}
	return env.Message.Content.Message, true
}
