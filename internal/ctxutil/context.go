// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	senderKey    contextKey = "ctxutil.sender"
	channelKey   contextKey = "ctxutil.channel"
	requestIDKey contextKey = "ctxutil.requestID"
)

// WithSender adds the sender identifier to the context.
// For WhatsApp this is the Twilio "From" address (whatsapp:+506...),
// for LINE it is the user ID.
func WithSender(ctx context.Context, sender string) context.Context {
	return context.WithValue(ctx, senderKey, sender)
}

// GetSender retrieves the sender identifier from the context.
// Returns empty string if not found.
func GetSender(ctx context.Context) string {
	if v := ctx.Value(senderKey); v != nil {
		if sender, ok := v.(string); ok && sender != "" {
			return sender
		}
	}
	return ""
}

// WithChannel adds the messaging channel name ("whatsapp", "line") to the context.
func WithChannel(ctx context.Context, channel string) context.Context {
	return context.WithValue(ctx, channelKey, channel)
}

// GetChannel retrieves the messaging channel name from the context.
func GetChannel(ctx context.Context) string {
	if v := ctx.Value(channelKey); v != nil {
		if channel, ok := v.(string); ok && channel != "" {
			return channel
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context for tracing.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns the request ID and true if found, empty string and false otherwise.
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok
}

// MaskSender shortens a sender identifier for logs so phone numbers
// are not written in full.
func MaskSender(sender string) string {
	if len(sender) <= 8 {
		return sender
	}
	return sender[:len(sender)-4] + "****"
}
