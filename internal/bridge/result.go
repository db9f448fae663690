// Package bridge flattens an asset and a download snapshot into the
// key/value payload handed to the host application.
package bridge

import (
	"encoding/json"
	"math"

	"github.com/jaki95/hls-asset-manager/internal/asset"
)

// Field names of the host payload.
const (
	FieldAction         = "action"
	FieldAssetName      = "assetName"
	FieldVideoURL       = "videoURL"
	FieldResultProgress = "resultProgress"
)

// Actions the server and notifier project with.
const (
	ActionProgress     = "progress"
	ActionStateChanged = "stateChanged"
	ActionList         = "list"
	ActionError        = "error"
)

// Snapshot is the transient download information projected with an asset.
// Nil fields mean the caller did not supply them.
type Snapshot struct {
	Progress *float64
	State    *asset.DownloadState
}

// WithProgress returns a copy of s carrying progress.
func (s Snapshot) WithProgress(progress float64) Snapshot {
	s.Progress = &progress
	return s
}

// WithState returns a copy of s carrying state.
func (s Snapshot) WithState(state asset.DownloadState) Snapshot {
	s.State = &state
	return s
}

// Result is the projection of one asset.
type Result struct {
	Action     string
	AssetName  string
	VideoURL   string
	State      asset.DownloadState
	StateLabel string
	Progress   *float64

	// StateDefaulted is true when no state was supplied and NotDownloaded
	// was used for display only.
	StateDefaulted bool
}

// Project builds the host payload for a. It has no side effects.
func Project(a *asset.Asset, action string, snap Snapshot) Result {
	stream := a.Stream()
	r := Result{
		Action:    action,
		AssetName: stream.Name,
		VideoURL:  stream.PlaylistURL,
		State:     asset.NotDownloaded,
	}

	if snap.State != nil {
		r.State = *snap.State
	} else {
		r.StateDefaulted = true
	}
	r.StateLabel = r.State.Label()

	if snap.Progress != nil {
		p := clamp(*snap.Progress)
		r.Progress = &p
	}

	return r
}

// Map returns the flat payload. Progress appears under
// asset.KeyPercentDownloaded only when it was supplied.
func (r Result) Map() map[string]any {
	m := map[string]any{
		FieldAction:         r.Action,
		FieldAssetName:      r.AssetName,
		FieldVideoURL:       r.VideoURL,
		FieldResultProgress: r.StateLabel,
	}
	if r.Progress != nil {
		m[asset.KeyPercentDownloaded] = *r.Progress
	}
	return m
}

// MarshalJSON encodes the flat payload. Map keys are sorted by encoding/json,
// so equal results encode to identical bytes.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

func clamp(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
