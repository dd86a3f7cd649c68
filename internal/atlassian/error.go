package atlassian

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// Error represents a rejected REST call. Message and ErrorMessages are only
// populated when the response body was JSON; a non-JSON body leaves both
// empty and only the status code survives.
type Error struct {
	StatusCode    int      `json:"-"`
	Message       string   `json:"message"`
	ErrorMessages []string `json:"errorMessages"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if len(e.ErrorMessages) > 0 {
		return fmt.Sprintf("atlassian: %d %s", e.StatusCode, e.ErrorMessages[0])
	}
	if e.Message != "" {
		return fmt.Sprintf("atlassian: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("atlassian: %d", e.StatusCode)
}

// Messages flattens the server-reported errors: the errorMessages array when
// present, otherwise the single message field, otherwise nothing.
func (e *Error) Messages() []string {
	if len(e.ErrorMessages) > 0 {
		return e.ErrorMessages
	}
	if e.Message != "" {
		return []string{e.Message}
	}
	return nil
}

func parseError(res *http.Response) error {
	errRes := &Error{StatusCode: res.StatusCode}

	if !isJSON(res.Header.Get("Content-Type")) {
		io.Copy(io.Discard, res.Body)
		return errRes
	}

	data, _ := io.ReadAll(res.Body)
	if len(data) > 0 {
		_ = json.Unmarshal(data, errRes)
	}
	return errRes
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}
