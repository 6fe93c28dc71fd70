package utils

import (
	"log"
	"strings"
)

// LogEvent prints standardized log line with module/action/conversation id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(convID, module, action, message string) {
	id := strings.TrimSpace(convID)
	log.Printf("[%s] action=%s conv_id=%s msg=%s", strings.ToUpper(module), action, id, message)
}
