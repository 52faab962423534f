package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
	Error   string            `json:"error"`
}

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertSuccessResponse checks the status and decodes the data member of the
// success envelope into v
func AssertSuccessResponse(t *testing.T, resp *http.Response, expectedStatus int, v interface{}) {
	t.Helper()

	require.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	AssertJSONResponse(t, resp, &envelope)
	assert.Equal(t, "success", envelope.Status)
	if v != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, v), "failed to unmarshal data: %s", string(envelope.Data))
	}
}

// AssertErrorResponse verifies an error response's status, code and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedCode, expectedMessage string) *ErrorBody {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var body ErrorBody
	AssertJSONResponse(t, resp, &body)
	assert.Equal(t, expectedCode, body.Code, "error code mismatch")
	if expectedMessage != "" {
		assert.Equal(t, expectedMessage, body.Message, "error message mismatch")
	}
	return &body
}
