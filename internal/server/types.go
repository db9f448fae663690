package server

import "github.com/jaki95/hls-asset-manager/internal/bridge"

// StateRequest is sent by the download subsystem to report progress
type StateRequest struct {
	State                string   `json:"state" binding:"required"`
	Progress             *float64 `json:"progress,omitempty"`
	SelectionDisplayName string   `json:"selectionDisplayName,omitempty"`
}

// AssetListResponse lists every asset with its current state
type AssetListResponse struct {
	Assets []bridge.Result `json:"assets"`
}

// ErrorResponse is returned for failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}
