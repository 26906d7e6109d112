package webhook

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// LINE Messaging API limits, counted in runes.
const (
	maxLINETextLength     = 5000
	maxLINEQuickReplyItem = 13
	maxLINEQuickLabel     = 20
)

// menuShortcuts mirror the numbered menu options. Tapping one sends the
// digit, which the resolver maps like a typed option.
var menuShortcuts = []struct{ label, text string }{
	{"Curso en vivo", "1"},
	{"Cursos", "2"},
	{"Precios", "3"},
	{"Temarios", "4"},
	{"Asesor", "5"},
}

// newLINETextMessage builds the reply bubble with the menu shortcuts attached.
func newLINETextMessage(text string) *messaging_api.TextMessage {
	return &messaging_api.TextMessage{
		Text:       truncateRunes(text, maxLINETextLength),
		QuickReply: menuQuickReply(),
	}
}

func menuQuickReply() *messaging_api.QuickReply {
	items := make([]messaging_api.QuickReplyItem, 0, min(len(menuShortcuts), maxLINEQuickReplyItem))
	for _, s := range menuShortcuts {
		if len(items) == maxLINEQuickReplyItem {
			break
		}
		items = append(items, messaging_api.QuickReplyItem{
			Action: &messaging_api.MessageAction{
				Label: truncateRunes(s.label, maxLINEQuickLabel),
				Text:  s.text,
			},
		})
	}
	return &messaging_api.QuickReply{Items: items}
}

// truncateRunes cuts text to maxRunes, ending with "..." when shortened.
func truncateRunes(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}
