package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wallcore/geom/config"
	"github.com/wallcore/geom/wallstore"
)

func newTestRouter(store *wallstore.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	r := gin.New()
	r.GET("/health", handleHealth)
	r.POST("/api/v1/walls", newCreateWallHandler(store, cfg))
	r.GET("/api/v1/walls/:id", newGetWallHandler(store))
	r.POST("/api/v1/walls/:id/switch-mode", newSwitchModeHandler(store, cfg))
	r.DELETE("/api/v1/walls/:id", newDeleteWallHandler(store))
	return r
}

func TestHealthReturnsOK(t *testing.T) {
	r := newTestRouter(wallstore.New())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestCreateWallThenGetRoundTrips(t *testing.T) {
	store := wallstore.New()
	r := newTestRouter(store)

	body, _ := json.Marshal(createWallRequest{
		Baseline:  [][2]float64{{0, 0}, {1000, 0}},
		Thickness: 250,
		WallType:  "interior",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/walls", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201, body=%s", w.Code, w.Body.String())
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal create response: %v", err)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/walls/"+created.ID, nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200, body=%s", w2.Code, w2.Body.String())
	}
}

func TestSwitchModeToBIMComputesGeometry(t *testing.T) {
	store := wallstore.New()
	r := newTestRouter(store)

	body, _ := json.Marshal(createWallRequest{
		Baseline:  [][2]float64{{0, 0}, {1000, 0}, {1000, 1000}},
		Thickness: 200,
		WallType:  "interior",
		Mode:      "basic",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/walls", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201, body=%s", w.Code, w.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal create response: %v", err)
	}

	switchBody, _ := json.Marshal(switchModeRequest{Target: "bim"})
	switchReq := httptest.NewRequest(http.MethodPost, "/api/v1/walls/"+created.ID+"/switch-mode", bytes.NewReader(switchBody))
	switchReq.Header.Set("Content-Type", "application/json")
	switchW := httptest.NewRecorder()
	r.ServeHTTP(switchW, switchReq)
	if switchW.Code != http.StatusOK {
		t.Fatalf("switch-mode status = %d, want 200, body=%s", switchW.Code, switchW.Body.String())
	}

	id, err := uuid.Parse(created.ID)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}
	updated, ok := store.Get(id)
	if !ok {
		t.Fatalf("wall %s not found after switch", created.ID)
	}
	if len(updated.LeftOffset) == 0 || len(updated.RightOffset) == 0 {
		t.Errorf("expected offsets to be populated after switching to bim, got left=%d right=%d", len(updated.LeftOffset), len(updated.RightOffset))
	}
}

func TestCreateWallRejectsMissingBaseline(t *testing.T) {
	r := newTestRouter(wallstore.New())
	body, _ := json.Marshal(map[string]interface{}{"thickness": 250})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/walls", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
