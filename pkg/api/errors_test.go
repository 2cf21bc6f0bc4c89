package api

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "without param",
			err:  NewServerError("boom"),
			want: "server_error: boom",
		},
		{
			name: "with param",
			err:  NewInvalidRequestError("email", "is required"),
			want: "invalid_request: is required (param: email)",
		},
		{
			name: "provider error carries code",
			err:  NewProviderError("invalid_grant", "bad credentials"),
			want: "provider_error: bad credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError_ImplementsError(t *testing.T) {
	var err error = NewTimeoutError("session lookup timed out")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("expected errors.As to unwrap *APIError")
	}
	if apiErr.Type != ErrorTypeTimeout {
		t.Errorf("Type = %q, want %q", apiErr.Type, ErrorTypeTimeout)
	}
}

func TestErrorResponse_JSON(t *testing.T) {
	resp := ErrorResponse{Error: NewUnauthorizedError("authentication required")}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if !strings.Contains(string(data), `"type":"unauthorized"`) {
		t.Errorf("serialized error missing type: %s", data)
	}
	if strings.Contains(string(data), `"code"`) {
		t.Errorf("empty code should be omitted: %s", data)
	}
}
