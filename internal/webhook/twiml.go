package webhook

import (
	"encoding/xml"
	"fmt"
)

// TwiMLContentType is the Content-Type of every TwiML response.
const TwiMLContentType = "text/xml; charset=utf-8"

// twimlResponse is a messaging TwiML document:
// <Response><Message>text</Message></Response>.
type twimlResponse struct {
	XMLName  xml.Name       `xml:"Response"`
	Messages []twimlMessage `xml:"Message"`
}

type twimlMessage struct {
	Body string `xml:",chardata"`
}

// MarshalTwiML renders messages as a TwiML document, one <Message> each.
func MarshalTwiML(messages ...string) ([]byte, error) {
	resp := twimlResponse{Messages: make([]twimlMessage, len(messages))}
	for i, m := range messages {
		resp.Messages[i] = twimlMessage{Body: m}
	}

	body, err := xml.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal twiml: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
