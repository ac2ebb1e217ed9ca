package messaging

import (
	"fmt"
	"unicode/utf8"
)

// maxChunkLen is WhatsApp's practical per-message length before delivery
// gets flaky; longer text is split.
const maxChunkLen = 1500

// chunkMessage splits text into delivery-sized pieces. Cuts land on rune
// boundaries; star glyphs and non-ASCII review text must not be torn into
// invalid halves. Multi-part messages get an " (i/n)" suffix so the
// manager can reassemble them in order.
func chunkMessage(text string) []string {
	if len(text) <= maxChunkLen {
		return []string{text}
	}

	var parts []string
	rest := text
	for len(rest) > 0 {
		end := maxChunkLen
		if end >= len(rest) {
			end = len(rest)
		} else {
			for end > 0 && !utf8.RuneStart(rest[end]) {
				end--
			}
			if end == 0 {
				end = maxChunkLen
			}
		}
		parts = append(parts, rest[:end])
		rest = rest[end:]
	}

	for i := range parts {
		parts[i] = fmt.Sprintf("%s (%d/%d)", parts[i], i+1, len(parts))
	}
	return parts
}
