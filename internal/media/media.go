// Package media resolves stored media references into playable URLs.
package media

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	driveFilePath = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)
	driveIDParam  = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
)

// Kind identifies where a media reference points.
type Kind string

const (
	KindDrive   Kind = "drive"
	KindStorage Kind = "storage" // gs:// object reference
	KindURL     Kind = "url"
)

// Playback is a resolved media reference.
type Playback struct {
	Kind   Kind
	Source string // the stored reference
	URL    string // URL a player can load
}

// IsDriveURL reports whether ref is a Google Drive link.
func IsDriveURL(ref string) bool {
	return strings.Contains(ref, "drive.google.com")
}

// DriveFileID extracts the file ID from a Google Drive sharing link.
// Handles /file/d/<id>/view and open?id=<id> forms.
func DriveFileID(ref string) (string, bool) {
	if m := driveFilePath.FindStringSubmatch(ref); m != nil {
		return m[1], true
	}
	if m := driveIDParam.FindStringSubmatch(ref); m != nil {
		return m[1], true
	}
	return "", false
}

// DrivePreviewURL converts a Drive sharing link into its embeddable preview URL.
// Links without a recognizable file ID are returned unchanged.
func DrivePreviewURL(ref string) string {
	id, ok := DriveFileID(ref)
	if !ok {
		return ref
	}
	return "https://drive.google.com/file/d/" + id + "/preview"
}

// Resolve classifies a stored reference and produces its playback URL.
// Object-store references are returned as-is; signing them is the storage
// provider's concern.
func Resolve(ref string) Playback {
	ref = strings.TrimSpace(ref)
	switch {
	case IsDriveURL(ref):
		return Playback{Kind: KindDrive, Source: ref, URL: DrivePreviewURL(ref)}
	case strings.HasPrefix(ref, "gs://"):
		return Playback{Kind: KindStorage, Source: ref, URL: ref}
	default:
		return Playback{Kind: KindURL, Source: ref, URL: ref}
	}
}

// ValidReference reports whether ref is a gs:// object or an absolute http(s) URL.
func ValidReference(ref string) bool {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "gs://") {
		return len(ref) > len("gs://") && strings.Contains(ref[len("gs://"):], "/")
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
