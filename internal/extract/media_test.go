package extract

import "testing"

func TestClassifyMedia(t *testing.T) {
	tests := []struct {
		name string
		link string
		want MediaKind
	}{
		{"youtube domain", "https://youtube.com/watch?v=abc", MediaVideo},
		{"youtu.be domain", "https://youtu.be/abc", MediaVideo},
		{"vimeo domain", "https://vimeo.com/123", MediaVideo},
		{"mp4 suffix", "https://cdn.example/clip.mp4", MediaVideo},
		{"m4v suffix", "https://cdn.example/clip.m4v", MediaVideo},
		{"soundcloud domain", "https://soundcloud.com/artist/track", MediaAudio},
		{"mp3 suffix", "https://cdn.example/song.mp3", MediaAudio},
		{"instagram domain", "https://instagram.com/p/abc", MediaImage},
		{"pic.twitter.com", "https://pic.twitter.com/abc", MediaImage},
		{"jpg suffix", "https://cdn.example/photo.jpg", MediaImage},
		{"gif suffix", "https://cdn.example/anim.gif", MediaImage},
		{"plain page", "https://example.com/article", MediaNone},
		{"empty", "", MediaNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyMedia(tt.link); got != tt.want {
				t.Errorf("ClassifyMedia(%q) = %v, want %v", tt.link, got, tt.want)
			}
		})
	}
}

func TestClassifyMedia_VideoBeatsImageSuffix(t *testing.T) {
	// domain match runs before the image suffix check
	if got := ClassifyMedia("https://youtube.com/thumb.jpg"); got != MediaVideo {
		t.Errorf("got %v, want MediaVideo", got)
	}
}

func TestClassifyMedia_DomainAtPositionZero(t *testing.T) {
	// a bare domain with no scheme starts at position 0 and never matches
	if got := ClassifyMedia("youtube.com/watch"); got != MediaNone {
		t.Errorf("got %v, want MediaNone", got)
	}
}
