package storage

import "strings"

var nameReplacer = strings.NewReplacer("/", "-", ":", "-", "\"", "'", "?", "", "\\", "-", "|", "-", "*", "")

func sanitizeName(name string) string {
	return strings.TrimSpace(nameReplacer.Replace(name))
}
