package httpserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vidora/adserve/internal/config"
	"github.com/vidora/adserve/internal/httpserver"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Serving: config.ServingConfig{SeenTTL: time.Hour},
	}
	handler := httpserver.NewServer(&httpserver.Dependencies{
		Config: cfg,
		Logger: zap.NewNop(),
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, url, err)
		}
	}
	return resp, decoded
}

func createPerformer(t *testing.T, base, name, email string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/performers", map[string]string{
		"performerName":  name,
		"performerEmail": email,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create performer: status %d, body %v", resp.StatusCode, body)
	}
	id, _ := body["performerId"].(string)
	if id == "" {
		t.Fatal("create performer: no performerId in response")
	}
	return id
}

func createAd(t *testing.T, base, email string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/ads", map[string]any{
		"adName":         "launch teaser",
		"performerEmail": email,
		"adDetails": map[string]any{
			"videoUrl":  "https://cdn.example.com/teaser.mp4",
			"targetUrl": "https://example.com/install",
			"budget":    "medium",
			"skipTime":  5,
			"exitTime":  30,
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create ad: status %d, body %v", resp.StatusCode, body)
	}
	id, _ := body["adId"].(string)
	if id == "" {
		t.Fatal("create ad: no adId in response")
	}
	return id
}

func postEvent(t *testing.T, base, adID, eventType string, watch float64) {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/ad_event", map[string]any{
		"adId":      adID,
		"timestamp": "2024-03-01T10:00:00Z",
		"eventDetails": map[string]any{
			"packageName":   "com.example.game",
			"eventType":     eventType,
			"watchDuration": watch,
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("post event %s: status %d, body %v", eventType, resp.StatusCode, body)
	}
	if id, _ := body["eventId"].(string); id == "" {
		t.Fatal("post event: no eventId in response")
	}
}

func TestPerformerRegistrationFlow(t *testing.T) {
	ts := newTestServer(t)

	id := createPerformer(t, ts.URL, "Acme Studio", "acme@example.com")

	// Same email again is not an error, it returns the existing account.
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/performers", map[string]string{
		"performerName":  "Acme Twice",
		"performerEmail": "acme@example.com",
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("duplicate create: status %d, want 200", resp.StatusCode)
	}
	if got, _ := body["performerId"].(string); got != id {
		t.Errorf("duplicate create returned id %s, want %s", got, id)
	}

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/performers/check-email", map[string]string{
		"performerEmail": "acme@example.com",
	})
	if resp.StatusCode != http.StatusOK || body["exists"] != true {
		t.Errorf("check-email: status %d, body %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/performers/check-email", map[string]string{
		"performerEmail": "nobody@example.com",
	})
	if resp.StatusCode != http.StatusOK || body["exists"] != false {
		t.Errorf("check-email unknown: status %d, body %v", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/performers", map[string]string{
		"performerName": "No Email",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing email: status %d, want 400", resp.StatusCode)
	}
}

func TestDeveloperLoginFlow(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/developers", map[string]string{
		"developerName":  "Dana",
		"developerEmail": "dana@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create developer: status %d, body %v", resp.StatusCode, body)
	}
	devID, _ := body["developerId"].(string)

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/developers/login", map[string]string{
		"developerEmail": "dana@example.com",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d, body %v", resp.StatusCode, body)
	}
	if got, _ := body["developerId"].(string); got != devID {
		t.Errorf("login id = %s, want %s", got, devID)
	}

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/developers/login", map[string]string{
		"developerEmail": "stranger@example.com",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("login unknown: status %d, want 404", resp.StatusCode)
	}
}

func TestAdLifecycle(t *testing.T) {
	ts := newTestServer(t)
	createPerformer(t, ts.URL, "Acme Studio", "acme@example.com")
	adID := createAd(t, ts.URL, "acme@example.com")

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/ads/"+adID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get ad: status %d", resp.StatusCode)
	}
	if body["_id"] != adID || body["name"] != "launch teaser" {
		t.Errorf("get ad body = %v", body)
	}

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/ads/"+adID, map[string]any{"budget": "high"})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("update ad: status %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/ads/"+adID, map[string]any{"budget": "gigantic"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad budget update: status %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/ads/"+adID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete ad: status %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/ads/"+adID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted ad: status %d, want 404", resp.StatusCode)
	}
}

func TestRandomAd(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/ads/random?packageName=com.example.game")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("empty catalog: status %d, want 204", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/ads/random")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing packageName: status %d, want 400", resp.StatusCode)
	}

	createPerformer(t, ts.URL, "Acme Studio", "acme@example.com")
	adID := createAd(t, ts.URL, "acme@example.com")

	r, body := doJSON(t, http.MethodGet, ts.URL+"/ads/random?packageName=com.example.game", nil)
	if r.StatusCode != http.StatusOK {
		t.Fatalf("random ad: status %d", r.StatusCode)
	}
	if body["_id"] != adID {
		t.Errorf("random ad id = %v, want %s", body["_id"], adID)
	}
}

func TestEventIngestAndStats(t *testing.T) {
	ts := newTestServer(t)
	performerID := createPerformer(t, ts.URL, "Acme Studio", "acme@example.com")
	adID := createAd(t, ts.URL, "acme@example.com")

	postEvent(t, ts.URL, adID, "view", 20)
	postEvent(t, ts.URL, adID, "view", 30)
	postEvent(t, ts.URL, adID, "click", 0)
	postEvent(t, ts.URL, adID, "skip", 0)
	postEvent(t, ts.URL, adID, "exit", 0)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/ads/"+adID+"/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ad stats: status %d, body %v", resp.StatusCode, body)
	}
	stats, ok := body["adStats"].(map[string]any)
	if !ok {
		t.Fatalf("ad stats body = %v", body)
	}
	if stats["views"] != float64(2) || stats["clicks"] != float64(1) || stats["skips"] != float64(1) {
		t.Errorf("counts = %v/%v/%v, want 2/1/1", stats["views"], stats["clicks"], stats["skips"])
	}
	if stats["avgWatchDuration"] != 25.0 {
		t.Errorf("avgWatchDuration = %v, want 25", stats["avgWatchDuration"])
	}
	if stats["clickThroughRate"] != 50.0 {
		t.Errorf("clickThroughRate = %v, want 50", stats["clickThroughRate"])
	}
	// budget medium, weight 2: 1 click / 2 * 100.
	if stats["conversionRate"] != 50.0 {
		t.Errorf("conversionRate = %v, want 50", stats["conversionRate"])
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/performers/"+performerID+"/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("performer stats: status %d, body %v", resp.StatusCode, body)
	}
	adsStats, ok := body["adsStats"].([]any)
	if !ok || len(adsStats) != 1 {
		t.Fatalf("adsStats = %v, want one entry", body["adsStats"])
	}
	entry := adsStats[0].(map[string]any)
	if entry["adId"] != adID || entry["views"] != float64(2) || entry["exits"] != float64(1) {
		t.Errorf("entry = %v", entry)
	}
}

func TestEventIngestRejections(t *testing.T) {
	ts := newTestServer(t)
	createPerformer(t, ts.URL, "Acme Studio", "acme@example.com")
	adID := createAd(t, ts.URL, "acme@example.com")

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/ad_event", map[string]any{
		"adId":      adID,
		"timestamp": "t",
		"eventDetails": map[string]any{
			"packageName":   "com.example.game",
			"eventType":     "bounce",
			"watchDuration": 1,
		},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown event type: status %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/ad_event", map[string]any{
		"adId":      "ghost",
		"timestamp": "t",
		"eventDetails": map[string]any{
			"packageName":   "com.example.game",
			"eventType":     "view",
			"watchDuration": 1,
		},
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown ad: status %d, want 404", resp.StatusCode)
	}
}

func TestStatsForUnknownEntities(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/ads/ghost/stats", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown ad stats: status %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/performers/ghost/stats", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown performer stats: status %d, want 404", resp.StatusCode)
	}
}

func TestStatsDateRangeQuery(t *testing.T) {
	ts := newTestServer(t)
	createPerformer(t, ts.URL, "Acme Studio", "acme@example.com")
	adID := createAd(t, ts.URL, "acme@example.com")
	postEvent(t, ts.URL, adID, "view", 10)

	// Today's events fall outside a range that ended years ago.
	url := fmt.Sprintf("%s/ads/%s/stats?from=2000-01-01&to=2000-12-31", ts.URL, adID)
	resp, body := doJSON(t, http.MethodGet, url, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ranged stats: status %d", resp.StatusCode)
	}
	stats := body["adStats"].(map[string]any)
	if stats["views"] != float64(0) {
		t.Errorf("views = %v, want 0 outside the range", stats["views"])
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/health", nil)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("health: status %d, body %v", resp.StatusCode, body)
	}
}
