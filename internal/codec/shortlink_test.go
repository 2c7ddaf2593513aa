package codec

import (
	"strings"
	"testing"
)

func TestRewriteShortlinks_LongLinkReplaced(t *testing.T) {
	link := "https://example.com/very/long/path/abcdefghij"
	text := "read " + link + " now"

	tlm := RewriteShortlinks(text, []string{link}, "42", 10, "http://s")

	short := "http://s/x?id=42"
	if tlm.Text != "read "+short+" now" {
		t.Errorf("text: got %q", tlm.Text)
	}

	v, ok := tlm.ShortToLong.Get(short)
	if !ok {
		t.Fatalf("missing unshorten entry for %q", short)
	}
	preview, _ := v.(string)
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("preview not truncated: %q", preview)
	}
	if preview != link[:len(short)]+"..." {
		t.Errorf("preview: got %q", preview)
	}
}

func TestRewriteShortlinks_ShortLinkKept(t *testing.T) {
	link := "https://ex.co/a"
	text := "see " + link

	tlm := RewriteShortlinks(text, []string{link}, "42", 500, "http://s")

	if tlm.Text != text {
		t.Errorf("text changed: %q", tlm.Text)
	}
	if tlm.ShortToLong.Len() != 0 {
		t.Errorf("unexpected unshorten entries: %v", tlm.ShortToLong.Keys())
	}
}

func TestRewriteShortlinks_ShortlinkMustBeShorter(t *testing.T) {
	// over threshold but the shortlink would not save anything
	link := "https://ex.co/abcdefg"
	tlm := RewriteShortlinks(link, []string{link}, "42", 5, "http://shortener.example.com")

	if tlm.Text != link {
		t.Errorf("text changed: %q", tlm.Text)
	}
}

func TestRewriteShortlinks_CounterSeparatorForLaterLinks(t *testing.T) {
	link1 := "https://example.com/first/long/path/aaaaaaaaaa"
	link2 := "https://example.com/second/long/path/bbbbbbbbb"
	text := link1 + " and " + link2

	tlm := RewriteShortlinks(text, []string{link1, link2}, "7", 10, "http://s")

	keys := tlm.ShortToLong.Keys()
	if len(keys) != 2 {
		t.Fatalf("keys: got %v", keys)
	}
	if keys[0] != "http://s/x?id=7" {
		t.Errorf("first shortlink: got %q", keys[0])
	}
	if keys[1] != "http://s/x?id=7"+CounterSeparator+"1" {
		t.Errorf("second shortlink: got %q", keys[1])
	}
	if !strings.Contains(tlm.Text, keys[0]) || !strings.Contains(tlm.Text, keys[1]) {
		t.Errorf("text: got %q", tlm.Text)
	}
}

func TestRewriteShortlinks_NoLinks(t *testing.T) {
	tlm := RewriteShortlinks("plain text", nil, "1", 10, "http://s")

	if tlm.Text != "plain text" {
		t.Errorf("text: got %q", tlm.Text)
	}
	if tlm.ShortToLong == nil || tlm.ShortToLong.Len() != 0 {
		t.Errorf("unshorten map not empty")
	}
}
