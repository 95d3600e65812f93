package job

import (
	"fmt"
	"strings"

	"streampack/ladder"
)

// BuildMasterPlaylist synthesizes the HLS master playlist text for a set of
// completed renditions. BANDWIDTH is the rendition maxrate in bits per
// second; each variant line references the rendition's own playlist by
// relative path.
func BuildMasterPlaylist(renditions []ladder.RenditionProfile) (string, error) {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXT-X-VERSION:3\n")

	for _, p := range renditions {
		bandwidth, err := ladder.MaxrateBits(p.Maxrate)
		if err != nil {
			return "", fmt.Errorf("rendition %s has invalid maxrate: %w", p.Name, err)
		}
		fmt.Fprintf(&b, "#EXT-X-STREAM-INF:BANDWIDTH=%d,RESOLUTION=%dx%d,NAME=\"%s\"\n",
			bandwidth, p.Width, p.Height, p.Name)
		b.WriteString(p.Name + ".m3u8\n")
	}

	return b.String(), nil
}
