package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/njchilds90/matadi/lab"
)

func TestToolHandler(t *testing.T) {
	h := toolHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))

	call := func(method, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(method, "/tool", strings.NewReader(body)))
		return rec
	}

	rec := call(http.MethodPost, `{"tool":"models","params":{}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp lab.ToolResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Result)

	require.Equal(t, http.StatusMethodNotAllowed, call(http.MethodGet, "").Code)
	require.Equal(t, http.StatusBadRequest, call(http.MethodPost, `{"tool":"models","extra":1}`).Code)
	require.Equal(t, http.StatusBadRequest, call(http.MethodPost, `{"tool":"models"} {}`).Code)

	rec = call(http.MethodPost, `{"tool":"nope"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Error, "unknown tool")
}
