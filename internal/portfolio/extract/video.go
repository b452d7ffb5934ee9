package extract

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

const thumbnailTemplate = "https://img.youtube.com/vi/%s/hqdefault.jpg"

var videoIDRE = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)

// IsVideoURL reports whether raw has a recognised video-hosting shape:
// youtube.com/watch?v=ID, youtube.com/shorts/ID, youtube.com/embed/ID or
// youtu.be/ID.
func IsVideoURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u == nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	switch videoDomain(u.Hostname()) {
	case "youtu.be":
		return videoIDRE.MatchString(strings.Trim(u.Path, "/"))
	case "youtube.com":
		if u.Path == "/watch" {
			return videoIDRE.MatchString(u.Query().Get("v"))
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				return videoIDRE.MatchString(strings.Trim(strings.TrimPrefix(u.Path, prefix), "/"))
			}
		}
	}
	return false
}

func videoDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}
	eTLD1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return eTLD1
}

// VideoID returns the v query parameter when present, else the last path
// segment.
func VideoID(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u == nil {
		return ""
	}
	if v := strings.TrimSpace(u.Query().Get("v")); v != "" {
		return v
	}
	seg := path.Base(strings.TrimRight(u.Path, "/"))
	if seg == "." || seg == "/" {
		return ""
	}
	return seg
}

// ThumbnailURL derives the thumbnail image for a video link.
func ThumbnailURL(raw string) string {
	id := VideoID(raw)
	if id == "" {
		return ""
	}
	return fmt.Sprintf(thumbnailTemplate, url.PathEscape(id))
}
