package utils

import "regexp"

var driveFileID = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)

// ConvertDriveLink rewrites a Google Drive share link into a direct view
// link. Other URLs are returned unchanged.
func ConvertDriveLink(url string) string {
	m := driveFileID.FindStringSubmatch(url)
	if m == nil {
		return url
	}
	return "https://drive.google.com/uc?export=view&id=" + m[1]
}
