package reward

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MedalGacha_Go/internal/domain"
)

func TestGrant_Success(t *testing.T) {
	var gotReq grantRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, EndpointGrant, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(grantResponse{GrantID: "grant-1"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	items := []Item{{ItemID: "item-1", ItemName: "Golden Badge", Rarity: "legendary"}}

	grantID, err := client.Grant(context.Background(), "user-1", items)
	require.NoError(t, err)

	assert.Equal(t, "grant-1", grantID)
	assert.Equal(t, "user-1", gotReq.UserID)
	assert.Equal(t, items, gotReq.Items)
}

func TestGrant_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "inventory full", http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	_, err := client.Grant(context.Background(), "user-1", []Item{{ItemID: "item-1"}})

	assert.True(t, errors.Is(err, domain.ErrRewardGrantFailed))
}

func TestRevoke_Success(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	err := client.Revoke(context.Background(), "grant-1")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/v1/grants/grant-1", gotPath)
}

func TestRevoke_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown grant", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	err := client.Revoke(context.Background(), "grant-missing")

	assert.Error(t, err)
}
