package proxy

import (
	"fmt"
	"net/url"
)

// Allow-listed endpoint names. Anything else is rejected with a client
// error before the upstream is contacted.

// postPath maps a JSON-body endpoint name to its upstream path. Session-
// scoped endpoints splice session_id out of the request data.
func postPath(endpoint string, data map[string]any) (string, bool) {
	switch endpoint {
	case "generate-letter":
		return "/api/v1/letter/generate", true
	case "validate-letter":
		return "/api/v1/letter/validate", true
	case "edit-letter":
		return "/api/v1/chat/sessions/" + stringField(data, "session_id") + "/edit", true
	case "create-chat-session":
		return "/api/v1/chat/sessions", true
	case "extend-chat-session":
		return "/api/v1/chat/sessions/" + stringField(data, "session_id") + "/extend", true
	case "cleanup-chat":
		return "/api/v1/chat/cleanup", true
	case "archive-letter":
		return "/api/v1/archive/letter", true
	case "update-archive":
		return "/api/v1/archive/update", true
	}
	return "", false
}

func putPath(endpoint string) (string, bool) {
	if endpoint == "update-archive" {
		return "/api/v1/archive/update", true
	}
	return "", false
}

func deletePath(endpoint, sessionID string) (string, bool) {
	if endpoint == "delete-chat-session" {
		return "/api/v1/chat/sessions/" + sessionID, true
	}
	return "", false
}

// getQuery carries the read-endpoint parameters.
type getQuery struct {
	Category       string
	SessionID      string
	LetterID       string
	Limit          string
	Offset         string
	IncludeExpired string
}

func getPath(endpoint string, q getQuery) (string, bool) {
	switch endpoint {
	case "letter-categories":
		return "/api/v1/letter/categories", true
	case "letter-template":
		return "/api/v1/letter/templates/" + q.Category, true
	case "chat-sessions":
		path := "/api/v1/chat/sessions"
		if q.IncludeExpired != "" {
			path += "?include_expired=" + url.QueryEscape(q.IncludeExpired)
		}
		return path, true
	case "chat-history":
		path := fmt.Sprintf("/api/v1/chat/sessions/%s/history", q.SessionID)
		params := url.Values{}
		if q.Limit != "" {
			params.Set("limit", q.Limit)
		}
		if q.Offset != "" {
			params.Set("offset", q.Offset)
		}
		if encoded := params.Encode(); encoded != "" {
			path += "?" + encoded
		}
		return path, true
	case "chat-status":
		return fmt.Sprintf("/api/v1/chat/sessions/%s/status", q.SessionID), true
	case "memory-stats":
		return "/api/v1/chat/memory/stats", true
	case "memory-instructions":
		path := "/api/v1/chat/memory/instructions"
		params := url.Values{}
		if q.Category != "" {
			params.Set("category", q.Category)
		}
		if q.SessionID != "" {
			params.Set("session_id", q.SessionID)
		}
		if encoded := params.Encode(); encoded != "" {
			path += "?" + encoded
		}
		return path, true
	case "archive-status":
		return "/api/v1/archive/status/" + q.LetterID, true
	}
	return "", false
}

func stringField(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
