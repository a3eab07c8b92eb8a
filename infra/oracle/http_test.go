package oracle

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreoracle "github.com/kilianp07/stripboard/core/oracle"
)

func TestHTTPOracleWrappedOutput(t *testing.T) {
	var gotBody proposalRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(b, &gotBody))
		_ = json.NewEncoder(w).Encode(proposalResponse{Output: `{"total_days": 2}`})
	}))
	defer srv.Close()

	o, err := New(Config{URL: srv.URL, Model: "planner-small"})
	require.NoError(t, err)
	req, err := coreoracle.NewRequest(coreoracle.StageSchedule, map[string]string{"start_date": "2024-03-01"})
	require.NoError(t, err)

	raw, err := o.ProposePlan(context.Background(), req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_days": 2}`, string(raw))
	assert.Equal(t, "schedule_generation", gotBody.Stage)
	assert.Equal(t, "planner-small", gotBody.Model)
}

func TestHTTPOracleRawDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"locations": []}`))
	}))
	defer srv.Close()

	o, err := New(Config{URL: srv.URL})
	require.NoError(t, err)
	req, err := coreoracle.NewRequest(coreoracle.StageLocation, map[string]string{})
	require.NoError(t, err)

	raw, err := o.ProposePlan(context.Background(), req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"locations": []}`, string(raw))
}

func TestHTTPOracleErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	o, err := New(Config{URL: srv.URL})
	require.NoError(t, err)
	req, err := coreoracle.NewRequest(coreoracle.StageCrew, map[string]string{})
	require.NoError(t, err)

	_, err = o.ProposePlan(context.Background(), req)
	assert.Error(t, err)
}

func TestHTTPOracleRequiresURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
