package progress

import (
	"testing"

	"github.com/jaki95/hls-asset-manager/internal/asset"
	"github.com/jaki95/hls-asset-manager/internal/bridge"
	"github.com/jaki95/hls-asset-manager/internal/contentkey/contentkeytest"
	"github.com/jaki95/hls-asset-manager/internal/domain"
	"github.com/jaki95/hls-asset-manager/internal/media"
)

func testAsset(t *testing.T) *asset.Asset {
	ref, err := media.NewRemote("https://x/master.m3u8")
	if err != nil {
		t.Fatalf("Failed to create reference: %v", err)
	}
	return asset.New(domain.Stream{Name: "Movie1", PlaylistURL: "https://x/master.m3u8", IsProtected: true}, ref, &contentkeytest.Recorder{})
}

func TestPublishProgress(t *testing.T) {
	notifier := NewNotifier()
	a := testAsset(t)

	var received []Notification
	notifier.AddListener(func(note Notification) {
		received = append(received, note)
	})

	notifier.PublishProgress(a, 0.25, asset.Downloading)
	notifier.PublishProgress(a, 0.5, asset.Downloading)

	if len(received) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(received))
	}

	note := received[1]
	if note.Name != AssetDownloadProgress {
		t.Errorf("Expected %s, got %s", AssetDownloadProgress, note.Name)
	}
	if note.UserInfo[asset.KeyName] != "Movie1" {
		t.Errorf("Expected asset name Movie1, got %v", note.UserInfo[asset.KeyName])
	}
	if note.UserInfo[asset.KeyPercentDownloaded] != 0.5 {
		t.Errorf("Expected progress 0.5, got %v", note.UserInfo[asset.KeyPercentDownloaded])
	}
	if note.Result.Action != bridge.ActionProgress {
		t.Errorf("Expected action %s, got %s", bridge.ActionProgress, note.Result.Action)
	}
}

func TestPublishStateChanged(t *testing.T) {
	notifier := NewNotifier()
	a := testAsset(t)

	var received []Notification
	notifier.AddListener(func(note Notification) {
		received = append(received, note)
	})

	notifier.PublishStateChanged(a, asset.Downloaded, "English")
	notifier.PublishStateChanged(a, asset.NotDownloaded, "")

	if len(received) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(received))
	}

	first := received[0]
	if first.UserInfo[asset.KeyDownloadState] != "downloaded" {
		t.Errorf("Expected state downloaded, got %v", first.UserInfo[asset.KeyDownloadState])
	}
	if first.UserInfo[asset.KeyDownloadSelectionDisplayName] != "English" {
		t.Errorf("Expected selection English, got %v", first.UserInfo[asset.KeyDownloadSelectionDisplayName])
	}
	if first.Result.StateLabel != asset.Downloaded.Label() {
		t.Errorf("Expected label %s, got %s", asset.Downloaded.Label(), first.Result.StateLabel)
	}

	if _, ok := received[1].UserInfo[asset.KeyDownloadSelectionDisplayName]; ok {
		t.Error("Expected no selection display name")
	}
}

func TestListenerManagement(t *testing.T) {
	notifier := NewNotifier()
	a := testAsset(t)

	var received []Notification
	listener := func(note Notification) {
		received = append(received, note)
	}
	notifier.AddListener(listener)

	notifier.PublishProgress(a, 0.5, asset.Downloading)
	if len(received) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(received))
	}

	notifier.RemoveListener(listener)

	notifier.PublishProgress(a, 0.75, asset.Downloading)
	if len(received) != 1 {
		t.Errorf("Expected 1 notification after removal, got %d", len(received))
	}
}

func TestListenerMayRemoveItself(t *testing.T) {
	notifier := NewNotifier()
	a := testAsset(t)

	calls := 0
	var listener func(Notification)
	listener = func(Notification) {
		calls++
		notifier.RemoveListener(listener)
	}
	notifier.AddListener(listener)

	notifier.PublishStateChanged(a, asset.Downloading, "")
	notifier.PublishStateChanged(a, asset.Downloaded, "")

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}
