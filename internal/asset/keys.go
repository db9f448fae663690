package asset

// Keys used in notification payloads and by the asset list. External
// consumers match on these strings literally.
const (
	// KeyName carries the asset name in progress and state-changed
	// notifications.
	KeyName = "AssetNameKey"

	// KeyPercentDownloaded carries download progress in progress
	// notifications.
	KeyPercentDownloaded = "AssetPercentDownloadedKey"

	// KeyDownloadState carries the download state in state-changed
	// notifications.
	KeyDownloadState = "AssetDownloadStateKey"

	// KeyDownloadSelectionDisplayName carries the display name of the media
	// selection being downloaded in state-changed notifications.
	KeyDownloadSelectionDisplayName = "AssetDownloadSelectionDisplayNameKey"
)
