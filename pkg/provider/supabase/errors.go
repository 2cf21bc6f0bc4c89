package supabase

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sahab-dev/edgeauth/pkg/api"
)

// authErrorResponse is the error shape returned by the auth endpoints.
// Older deployments use "error"/"error_description", newer ones "msg".
type authErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
}

// mapHTTPError converts a non-2xx provider response into an APIError.
func mapHTTPError(resp *http.Response) *api.APIError {
	code, message := extractError(resp.Body)

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		if message == "" {
			message = "invalid request to identity provider"
		}
		return api.NewProviderError(code, message)

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "provider rejected credentials"
		}
		return api.NewUnauthorizedError(message)

	case resp.StatusCode == http.StatusNotFound:
		if message == "" {
			message = "provider resource not found"
		}
		return api.NewNotFoundError(message)

	case resp.StatusCode >= http.StatusInternalServerError:
		if message == "" {
			message = fmt.Sprintf("provider server error (HTTP %d)", resp.StatusCode)
		}
		return api.NewServerError(message)

	default:
		if message == "" {
			message = fmt.Sprintf("unexpected provider error (HTTP %d)", resp.StatusCode)
		}
		return api.NewProviderError(code, message)
	}
}

// mapNetworkError converts a network-level error (connection refused,
// timeout, DNS failure) into an APIError.
func mapNetworkError(err error) *api.APIError {
	return api.NewServerError(fmt.Sprintf("provider connection error: %s", err.Error()))
}

// extractError tries to parse the response body as an auth error and
// returns the error code and message when found.
func extractError(body io.Reader) (code, message string) {
	if body == nil {
		return "", ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "", ""
	}

	var errResp authErrorResponse
	if err := json.Unmarshal(data, &errResp); err != nil {
		return "", ""
	}

	code = errResp.ErrorCode
	if code == "" {
		code = errResp.Error
	}

	switch {
	case errResp.Msg != "":
		message = errResp.Msg
	case errResp.ErrorDescription != "":
		message = errResp.ErrorDescription
	default:
		message = errResp.Error
	}
	return code, message
}
