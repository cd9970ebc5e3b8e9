package v1

import "strings"

// sanitizeError returns a client-safe message for unexpected errors.
// Never expose raw gin/go binding errors to clients (security + UX).
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	// Raw binding errors expose internal structure - return generic message
	if strings.Contains(msg, "validation") ||
		strings.Contains(msg, "Field validation") ||
		strings.Contains(msg, "cannot unmarshal") ||
		strings.Contains(msg, "bind") ||
		strings.Contains(msg, "Key:") {
		return "Invalid request"
	}
	// Short, safe messages can pass through
	if len(msg) < 100 && !strings.Contains(msg, "Error:") {
		return msg
	}
	return "Invalid request"
}
