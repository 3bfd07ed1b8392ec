package client

import (
	"encoding/json"
	"net/http"
)

// APIError is a failure reported by the storage service. The service
// message is relayed verbatim.
type APIError struct {
	Status  int    `json:"statusCode"`
	Code    string `json:"error,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

func parseAPIError(res *http.Response) error {
	apierr := &APIError{Status: res.StatusCode}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil {
		apierr.Code = body.Error
		apierr.Message = body.Message
	}
	return apierr
}
