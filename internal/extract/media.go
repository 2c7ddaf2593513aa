package extract

import "strings"

// MediaKind is the bucket a link was classified into.
type MediaKind int

// Media kinds in cascade priority order.
const (
	MediaNone MediaKind = iota
	MediaVideo
	MediaAudio
	MediaImage
)

// Known media hosting domains. Matched as unanchored substrings: this is an
// intentional heuristic permissiveness, not a security boundary.
var (
	videoDomains = []string{"vimeo.com", "youtube.com", "youtu.be", "vine.co", "ted.com"}
	audioDomains = []string{"soundcloud.com"}
	imageDomains = []string{"flickr.com", "instagram.com", "imgur.com", "giphy.com", "pic.twitter.com"}
)

var (
	videoSuffixes = []string{".mp4", ".m4v"}
	audioSuffixes = []string{".mp3"}
	imageSuffixes = []string{".jpg", ".jpeg", ".png", ".gif"}
)

// ClassifyMedia buckets a link by a fixed-priority, first-match cascade:
// video, then audio, then image. A link matching none stays MediaNone and
// remains only in the general links array.
func ClassifyMedia(link string) MediaKind {
	if matchesMedia(link, videoSuffixes, videoDomains) {
		return MediaVideo
	}
	if matchesMedia(link, audioSuffixes, audioDomains) {
		return MediaAudio
	}
	if matchesMedia(link, imageSuffixes, imageDomains) {
		return MediaImage
	}
	return MediaNone
}

func matchesMedia(link string, suffixes, domains []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(link, s) {
			return true
		}
	}
	for _, d := range domains {
		// position 0 never matches; the scheme always precedes the host
		if strings.Index(link, d) > 0 {
			return true
		}
	}
	return false
}
