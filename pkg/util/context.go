package util

import (
	"context"
)

type key string

const (
	sessionIDKey = key("session-id")
	venueKey     = key("venue")
)

// WithSessionID returns a context carrying the network session a request arrived on.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// GetSessionID returns the session id from context
// will return empty string if not present
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// WithVenue returns a context carrying the venue a request targets.
func WithVenue(ctx context.Context, venue string) context.Context {
	return context.WithValue(ctx, venueKey, venue)
}

// GetVenue returns the venue from context
// will return empty string if not present
func GetVenue(ctx context.Context) string {
	venue, _ := ctx.Value(venueKey).(string)
	return venue
}

// Fields returns the key-value pairs this package has set into ctx.
func Fields(ctx context.Context) map[string]interface{} {
	fields := make(map[string]interface{})
	if id := GetRequestID(ctx); id != "" {
		fields["request_id"] = id
	}
	if id := GetSessionID(ctx); id != "" {
		fields["session_id"] = id
	}
	if venue := GetVenue(ctx); venue != "" {
		fields["venue"] = venue
	}
	return fields
}
