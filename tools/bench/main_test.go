package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScenario_HitsEveryStep(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()

		data := map[string]interface{}{"access_token": "t", "invite_id": 3}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": 0, "data": data})
	}))
	defer srv.Close()

	stats := NewAPITestStats()
	b := &benchClient{base: srv.URL, http: srv.Client(), stats: stats}
	b.scenario("x")

	assert.Equal(t, []string{
		"POST /api/v1/users/register",
		"POST /api/v1/users/register",
		"POST /api/v1/users/login",
		"POST /api/v1/users/login",
		"POST /api/v1/invites",
		"GET /api/v1/notifications/xb",
		"GET /api/v1/invites/3/status/xb",
		"PUT /api/v1/invites/3/status",
		"GET /api/v1/invites/3/status/xb",
	}, paths)
	assert.Len(t, stats.latencies["poll"], 2)
	assert.Empty(t, stats.failures)
}

func TestScenario_StopsOnFailedRegister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":409}`))
	}))
	defer srv.Close()

	stats := NewAPITestStats()
	b := &benchClient{base: srv.URL, http: srv.Client(), stats: stats}
	b.scenario("x")

	assert.Equal(t, map[string]int{"register": 1}, stats.failures)
}

func TestAddAndReport(t *testing.T) {
	stats := NewAPITestStats()
	stats.Add("login", true, time.Millisecond)
	stats.Add("login", false, 0)
	stats.Add("invite", false, 0)

	assert.Len(t, stats.latencies["login"], 1)
	assert.Equal(t, 1, stats.failures["invite"])
	assert.NotPanics(t, func() { stats.Report(time.Second) })
}
