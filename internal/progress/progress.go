package progress

import (
	"reflect"
	"sync"
	"time"

	"github.com/jaki95/hls-asset-manager/internal/asset"
	"github.com/jaki95/hls-asset-manager/internal/bridge"
)

// Notification names posted to listeners
const (
	AssetDownloadProgress     = "AssetDownloadProgressNotification"
	AssetDownloadStateChanged = "AssetDownloadStateChangedNotification"
)

// Notification is a named event whose user info is keyed by the asset
// lookup keys
type Notification struct {
	Name      string
	UserInfo  map[string]any
	Result    bridge.Result
	Timestamp time.Time
}

// Notifier fans download notifications out to listeners
type Notifier struct {
	mu        sync.RWMutex
	listeners []func(Notification)
}

// NewNotifier creates a Notifier with no listeners
func NewNotifier() *Notifier {
	return &Notifier{
		listeners: make([]func(Notification), 0),
	}
}

// AddListener adds a new notification listener
func (n *Notifier) AddListener(listener func(Notification)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, listener)
}

// RemoveListener removes a notification listener
func (n *Notifier) RemoveListener(listener func(Notification)) {
	n.mu.Lock()
	defer n.mu.Unlock()

	listenerPtr := reflect.ValueOf(listener).Pointer()
	for i := range n.listeners {
		if reflect.ValueOf(n.listeners[i]).Pointer() == listenerPtr {
			n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
			break
		}
	}
}

// PublishProgress posts a progress notification for a
func (n *Notifier) PublishProgress(a *asset.Asset, progress float64, state asset.DownloadState) Notification {
	result := bridge.Project(a, bridge.ActionProgress, bridge.Snapshot{}.WithProgress(progress).WithState(state))

	note := Notification{
		Name: AssetDownloadProgress,
		UserInfo: map[string]any{
			asset.KeyName:              a.Name(),
			asset.KeyPercentDownloaded: *result.Progress,
		},
		Result:    result,
		Timestamp: time.Now(),
	}
	n.notifyListeners(note)
	return note
}

// PublishStateChanged posts a state-changed notification for a. An empty
// selectionName is left out of the user info.
func (n *Notifier) PublishStateChanged(a *asset.Asset, state asset.DownloadState, selectionName string) Notification {
	result := bridge.Project(a, bridge.ActionStateChanged, bridge.Snapshot{}.WithState(state))

	userInfo := map[string]any{
		asset.KeyName:          a.Name(),
		asset.KeyDownloadState: result.State.String(),
	}
	if selectionName != "" {
		userInfo[asset.KeyDownloadSelectionDisplayName] = selectionName
	}

	note := Notification{
		Name:      AssetDownloadStateChanged,
		UserInfo:  userInfo,
		Result:    result,
		Timestamp: time.Now(),
	}
	n.notifyListeners(note)
	return note
}

// notifyListeners sends a notification to all registered listeners
func (n *Notifier) notifyListeners(note Notification) {
	n.mu.RLock()
	listeners := make([]func(Notification), len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.RUnlock()

	for _, listener := range listeners {
		listener(note)
	}
}
