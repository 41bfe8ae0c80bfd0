package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wallcore/geom/config"
	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/quality"
	"github.com/wallcore/geom/wallstore"
)

type createWallRequest struct {
	Baseline  [][2]float64 `json:"baseline" binding:"required"`
	Thickness float64      `json:"thickness" binding:"required"`
	WallType  string       `json:"wall_type"`
	Mode      string       `json:"mode"`
}

func newCreateWallHandler(store *wallstore.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createWallRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		baseline := make([]geometry.Point, len(req.Baseline))
		for i, p := range req.Baseline {
			baseline[i] = geometry.NewPoint(p[0], p[1])
		}

		mode := wallstore.ModeBasic
		if req.Mode == "bim" {
			mode = wallstore.ModeBIM
		}
		wallType := quality.WallType(req.WallType)
		if wallType == "" {
			wallType = quality.WallTypeInterior
		}

		w, err := store.Create(baseline, wallType, req.Thickness, mode)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		if mode == wallstore.ModeBIM {
			if err := syncBIMGeometry(store, w.ID, cfg); err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusCreated, gin.H{"id": w.ID, "version": w.Version})
	}
}

// syncBIMGeometry re-derives and installs the BIM representation for id via
// the offset engine, using cfg's tolerance and offset options.
func syncBIMGeometry(store *wallstore.Store, id uuid.UUID, cfg *config.Config) error {
	w, ok := store.Get(id)
	if !ok {
		return nil
	}
	left, right, boundary, err := computeBIMGeometry(w, cfg.Tolerance.Default, cfg.OffsetOptions())
	if err != nil {
		return err
	}
	if err := store.SetBIMGeometry(id, left, right, boundary, w.Intersections); err != nil {
		return err
	}
	return store.Synchronize(id)
}

func newGetWallHandler(store *wallstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wall id"})
			return
		}
		w, ok := store.Get(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "wall not found"})
			return
		}
		c.JSON(http.StatusOK, w)
	}
}

type switchModeRequest struct {
	Target string `json:"target" binding:"required"`
}

func newSwitchModeHandler(store *wallstore.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wall id"})
			return
		}
		var req switchModeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		target := wallstore.ModeBasic
		if req.Target == "bim" {
			target = wallstore.ModeBIM
		}
		result := store.SwitchMode([]uuid.UUID{id}, target)

		if target == wallstore.ModeBIM && result.Success {
			if err := syncBIMGeometry(store, id, cfg); err != nil {
				result.Warnings = append(result.Warnings, "BIM geometry resync failed: "+err.Error())
			}
		}
		c.JSON(http.StatusOK, result)
	}
}

func newDeleteWallHandler(store *wallstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wall id"})
			return
		}
		store.Delete([]uuid.UUID{id})
		c.Status(http.StatusNoContent)
	}
}
