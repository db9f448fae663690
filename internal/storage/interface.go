package storage

// Storage locates downloaded copies of assets. Writing the media itself is
// done by the download subsystem; this package only answers where a copy
// lives and whether it is present.
type Storage interface {
	AssetPath(assetName string) string

	// FileExists reports whether a downloaded bundle is present at path.
	FileExists(path string) bool

	// Remove deletes the bundle at path; a missing bundle is not an error.
	Remove(path string) error

	// ListBundles returns the paths of every downloaded bundle in storage.
	ListBundles() ([]string, error)

	// Locator returns the locator media is read from for the bundle at path.
	Locator(path string) string
}

// PackageExt is the extension of a downloaded HLS asset bundle.
const PackageExt = "movpkg"

// FileName returns the on-disk name for an asset's downloaded bundle.
func FileName(assetName string) string {
	return sanitizeName(assetName) + "." + PackageExt
}
