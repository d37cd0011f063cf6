package adaptation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ProcessRequest is the wire form of one adaptation request.
type ProcessRequest struct {
	FileID       string `json:"file_id"`
	OriginalPath string `json:"original_path"`
	RebuiltPath  string `json:"rebuilt_path"`
}

// ProcessResponse is the wire form of the service's answer.
type ProcessResponse struct {
	Outcome FileOutcome `json:"outcome"`
	Detail  string      `json:"detail,omitempty"`
}

// FileOutcome is the service's verdict word (replace, unmodified, failed).
// Services that report numeric codes are accepted too; the number is kept in
// its decimal form.
type FileOutcome string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (f *FileOutcome) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FileOutcome(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("outcome must be a string or number: %w", err)
	}
	*f = FileOutcome(n.String())
	return nil
}
