package logging

import "strings"

// FormatSubject builds the correlation/state subject string used in console
// output. Correlation ids are shortened to their first block.
func FormatSubject(correlationID, state string) string {
	correlationID = strings.TrimSpace(correlationID)
	state = strings.TrimSpace(state)
	if idx := strings.IndexByte(correlationID, '-'); idx > 0 {
		correlationID = correlationID[:idx]
	}
	switch {
	case correlationID != "" && state != "":
		return correlationID + " · " + state
	case correlationID != "":
		return correlationID
	default:
		return state
	}
}
