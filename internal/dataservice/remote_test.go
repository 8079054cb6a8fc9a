package dataservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *Remote {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return NewRemote(ts.URL+"/", time.Second, WithToken("tok"))
}

func TestRemote_ListTransactions(t *testing.T) {
	tests := []struct {
		wantErr     error
		name        string
		body        string
		status      int
		wantCount   int
		wantSuccess bool
		retryable   bool
	}{
		{
			name:        "success",
			status:      http.StatusOK,
			body:        `{"success":true,"payload":[{"id":"a","amount":"1"},{"id":"b","amount":"2"}]}`,
			wantSuccess: true,
			wantCount:   2,
		},
		{
			name:   "unsuccessful envelope",
			status: http.StatusOK,
			body:   `{"success":false,"error":"exchange offline"}`,
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"success":false}`,
			wantErr: common.ErrUnauthorized,
		},
		{
			name:      "server error",
			status:    http.StatusBadGateway,
			body:      `bad gateway`,
			wantErr:   common.ErrServiceUnavailable,
			retryable: true,
		},
		{
			name:    "not json",
			status:  http.StatusOK,
			body:    `<html>`,
			wantErr: common.ErrMalformedResponse,
		},
		{
			name:    "payload of wrong shape",
			status:  http.StatusOK,
			body:    `{"success":true,"payload":{"id":"a"}}`,
			wantErr: common.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := serve(t, tt.status, tt.body)

			resp, err := client.ListTransactions(context.Background())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.retryable, common.IsRetryable(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, resp.Success)
			assert.Len(t, resp.Payload, tt.wantCount)
			if !tt.wantSuccess {
				assert.Equal(t, "exchange offline", resp.Error)
			}
		})
	}
}

func TestRemote_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	client := NewRemote(url, time.Second, WithToken("tok"))
	_, err := client.ListTransactions(context.Background())
	assert.ErrorIs(t, err, common.ErrServiceUnavailable)
	assert.True(t, common.IsRetryable(err))
}

func TestRemote_NoSession(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)

	client := NewRemote(ts.URL, time.Second)

	_, err := client.ListTransactions(context.Background())
	assert.ErrorIs(t, err, common.ErrNoSession)
	assert.False(t, common.IsRetryable(err))

	_, err = client.CurrentUser(context.Background())
	assert.ErrorIs(t, err, common.ErrNoSession)

	assert.Zero(t, hits.Load())
}

func TestRemote_CurrentUser(t *testing.T) {
	client := serve(t, http.StatusOK, `{"success":true,"payload":{"id":7,"username":"alice","local_currency":"EUR"}}`)

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "EUR", user.LocalCurrency)
}
