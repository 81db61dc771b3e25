package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	var logs bytes.Buffer
	srv := httptest.NewServer(NewRouter(RouterConfig{Timeout: time.Minute, Logger: log.New(&logs)}))

	tests := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodPost, "/api/adapters", `{"fasta": ">A\nACGT\n"}`, http.StatusOK},
		{http.MethodPost, "/api/alignment/score", `{"read": "ACGT", "adapter": "ACGT"}`, http.StatusOK},
		{http.MethodPost, "/api/stats/reads", `{"reads": ">r\nACGT\n", "format": "fasta"}`, http.StatusOK},
		{http.MethodPost, "/api/filter", `{}`, http.StatusBadRequest},
		{http.MethodGet, "/api/filter", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	// Close waits for in-flight handlers, so every log line is written.
	srv.Close()
	assert.Contains(t, logs.String(), "path=/health")
}
