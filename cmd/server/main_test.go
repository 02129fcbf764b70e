package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-files/pkg/filemanager/api"
	"github.com/tendant/simple-files/pkg/filemanager/config"
)

func TestRouter_ServesStatus(t *testing.T) {
	cfg, err := config.Load(config.WithMemoryStorage())
	require.NoError(t, err)
	rt, err := cfg.Build(context.Background())
	require.NoError(t, err)
	defer rt.Close()

	router := newRouter(api.NewHandler(rt.Service, rt.Accounts, rt.Access, api.WithPingers(rt.Pingers)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var status map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status["db"])
	assert.True(t, status["redis"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
