package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaki95/hls-asset-manager/internal/asset"
	"github.com/jaki95/hls-asset-manager/internal/bridge"
	"github.com/jaki95/hls-asset-manager/internal/catalog"
)

// listAssets godoc
//
//	@Summary		List assets
//	@Description	Returns every catalog asset projected with its stored download state
//	@Tags			Assets
//	@Produce		json
//	@Success		200	{object}	AssetListResponse
//	@Router			/api/v1/assets [get]
func (s *Server) listAssets(c *gin.Context) {
	assets := s.catalog.Assets()
	response := AssetListResponse{Assets: make([]bridge.Result, 0, len(assets))}

	for _, a := range assets {
		snap, err := s.snapshot(c, a)
		if err != nil {
			slog.Error("Failed to read download state", "asset", a.Name(), "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		response.Assets = append(response.Assets, bridge.Project(a, bridge.ActionList, snap))
	}

	c.JSON(http.StatusOK, response)
}

// getAsset godoc
//
//	@Summary		Get asset
//	@Tags			Assets
//	@Produce		json
//	@Param			name	path		string	true	"Asset name"
//	@Success		200		{object}	bridge.Result
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/v1/assets/{name} [get]
func (s *Server) getAsset(c *gin.Context) {
	a, ok := s.lookupAsset(c)
	if !ok {
		return
	}

	snap, err := s.snapshot(c, a)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, bridge.Project(a, bridge.ActionList, snap))
}

// updateState godoc
//
//	@Summary		Report download state
//	@Description	Records the state reported by the download subsystem and notifies listeners
//	@Tags			Assets
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string			true	"Asset name"
//	@Param			request	body		StateRequest	true	"New state"
//	@Success		200		{object}	bridge.Result
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/v1/assets/{name}/state [put]
func (s *Server) updateState(c *gin.Context) {
	a, ok := s.lookupAsset(c)
	if !ok {
		return
	}

	var req StateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	next, err := asset.ParseDownloadState(req.State)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	previous, known, err := s.downloads.SetState(c, a, next)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	if !known || previous != next {
		s.notifier.PublishStateChanged(a, next, req.SelectionDisplayName)
	}

	if req.Progress != nil {
		note := s.notifier.PublishProgress(a, *req.Progress, next)
		c.JSON(http.StatusOK, note.Result)
		return
	}

	c.JSON(http.StatusOK, bridge.Project(a, bridge.ActionStateChanged, bridge.Snapshot{}.WithState(next)))
}

// resetState godoc
//
//	@Summary		Reset download state
//	@Description	Forgets the stored state, removes any downloaded copy and plays from the network again
//	@Tags			Assets
//	@Produce		json
//	@Param			name	path		string	true	"Asset name"
//	@Success		200		{object}	bridge.Result
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/v1/assets/{name}/state [delete]
func (s *Server) resetState(c *gin.Context) {
	a, ok := s.lookupAsset(c)
	if !ok {
		return
	}

	if err := s.downloads.Reset(c, a); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	note := s.notifier.PublishStateChanged(a, asset.NotDownloaded, "")
	c.JSON(http.StatusOK, note.Result)
}

func (s *Server) lookupAsset(c *gin.Context) (*asset.Asset, bool) {
	a, err := s.catalog.Asset(c.Param("name"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return nil, false
	}
	return a, true
}

// snapshot reads the stored state; an absent entry leaves the state unset so
// the projection falls back to notDownloaded.
func (s *Server) snapshot(c *gin.Context, a *asset.Asset) (bridge.Snapshot, error) {
	st, ok, err := s.store.State(c, a.Name())
	if err != nil {
		return bridge.Snapshot{}, err
	}
	if !ok {
		return bridge.Snapshot{}, nil
	}
	return bridge.Snapshot{}.WithState(st), nil
}
