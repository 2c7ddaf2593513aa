package codec

import (
	"strconv"
	"strings"
)

// CounterSeparator joins the shortlink id and the per-message link counter
// for the second and subsequent links of a message.
const CounterSeparator = "*"

// ellipsisReserve is the headroom checked before truncating a long link into
// a preview: the shortlink length plus the ellipsis marker.
const ellipsisReserve = 3

// TextLinkMap is the display form of a message text: the text with over-long
// links replaced by shortlinks, and the reversible short-to-long map.
type TextLinkMap struct {
	Text string
	// ShortToLong maps each substituted shortlink to a truncated preview of
	// the original link, in substitution order.
	ShortToLong *Document
}

// RewriteShortlinks substitutes a shortlink for every extracted link longer
// than threshold, provided the shortlink is actually shorter. Links keep
// their extraction order; the nth link (0-based) past the first gets a
// counter suffix so each resolves independently.
func RewriteShortlinks(text string, links []string, id string, threshold int, stub string) TextLinkMap {
	tlm := TextLinkMap{Text: text, ShortToLong: NewDocument()}

	for nth, link := range links {
		if len(link) <= threshold {
			continue
		}
		shortlink := stub + "/x?id=" + id
		if nth > 0 {
			shortlink += CounterSeparator + strconv.Itoa(nth)
		}
		if len(shortlink) >= len(link) {
			continue
		}

		tlm.Text = strings.ReplaceAll(tlm.Text, link, shortlink)
		if shortlink != link {
			preview := link
			if len(link) >= len(shortlink)+ellipsisReserve {
				preview = link[:len(shortlink)] + "..."
			}
			tlm.ShortToLong.Put(shortlink, preview)
		}
	}
	return tlm
}
