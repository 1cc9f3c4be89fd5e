package catalog

import "testing"

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		version string
		want    string
	}{
		{"no version", "One More Time", "", "One More Time"},
		{"non-standard version appended", "One More Time", "Live at Wembley", "One More Time (Live at Wembley)"},
		{"standard version skipped", "One More Time", "Album Version", "One More Time"},
		{"remaster skipped", "One More Time", "Remastered", "One More Time"},
		{"version already embedded", "One More Time (Live)", "Live", "One More Time (Live)"},
		{"embedded case-insensitive", "One More Time (LIVE)", "live", "One More Time (LIVE)"},
		{"empty title", "", "Live", "Unknown"},
		{"whitespace title", "   ", "", "Unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := displayTitle(tc.title, tc.version); got != tc.want {
				t.Errorf("displayTitle(%q, %q) = %q, want %q", tc.title, tc.version, got, tc.want)
			}
		})
	}
}

func TestNameOrUnknown(t *testing.T) {
	if got := nameOrUnknown(""); got != UnknownName {
		t.Errorf("empty name: got %q, want %q", got, UnknownName)
	}
	if got := nameOrUnknown("  Daft Punk  "); got != "Daft Punk" {
		t.Errorf("got %q, want %q", got, "Daft Punk")
	}
}

func TestArtworkOrPlaceholder(t *testing.T) {
	if got := artworkOrPlaceholder(""); got != PlaceholderArtwork {
		t.Errorf("empty url: got %q, want placeholder", got)
	}
	if got := artworkOrPlaceholder("https://example.com/cover.jpg"); got != "https://example.com/cover.jpg" {
		t.Errorf("got %q, want original url", got)
	}
}

func TestBitDepthOrDefault(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{24, 24},
		{16, 16},
		{0, 16},
		{32, 16},
	}
	for _, tc := range tests {
		if got := bitDepthOrDefault(tc.in); got != tc.want {
			t.Errorf("bitDepthOrDefault(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestTidalCoverURL(t *testing.T) {
	got := tidalCoverURL("aaaa-bbbb-cccc")
	want := "https://resources.tidal.com/images/aaaa/bbbb/cccc/640x640.jpg"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := tidalCoverURL(""); got != PlaceholderArtwork {
		t.Errorf("empty cover id: got %q, want placeholder", got)
	}
}

func TestAppleMusicArtworkURL(t *testing.T) {
	got := appleMusicArtworkURL(appleMusicArtwork{URL: "https://example.com/{w}x{h}bb.jpg"})
	want := "https://example.com/600x600bb.jpg"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := appleMusicArtworkURL(appleMusicArtwork{}); got != PlaceholderArtwork {
		t.Errorf("empty artwork: got %q, want placeholder", got)
	}
}
