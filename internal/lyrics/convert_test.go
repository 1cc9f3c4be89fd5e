package lyrics

import (
	"strings"
	"testing"
)

func TestLRCToPlain(t *testing.T) {
	lrc := "[00:12.00] One more time\n[00:15.30] We're gonna celebrate\n[00:18.00]\n[00:21.45] Oh yeah"
	want := "One more time\nWe're gonna celebrate\nOh yeah"
	if got := LRCToPlain(lrc); got != want {
		t.Errorf("LRCToPlain = %q, want %q", got, want)
	}
}

func TestLRCToPlainKaraokeTags(t *testing.T) {
	lrc := "[00:12.00] <00:12.10> One <00:12.50> more <00:13.00> time"
	want := "One  more  time"
	if got := LRCToPlain(lrc); got != want {
		t.Errorf("LRCToPlain = %q, want %q", got, want)
	}
}

func TestLRCToPlainEmpty(t *testing.T) {
	if got := LRCToPlain(""); got != "" {
		t.Errorf("LRCToPlain(\"\") = %q, want empty", got)
	}
}

func TestLRCToPlainIdempotent(t *testing.T) {
	lrc := "[00:12.00] One more time\n[00:15.30] We're gonna celebrate"
	once := LRCToPlain(lrc)
	if twice := LRCToPlain(once); twice != once {
		t.Errorf("second pass changed the text: %q vs %q", once, twice)
	}
}

func TestLRCToSRT(t *testing.T) {
	lrc := "[00:12.00] One more time\n[00:15.30] We're gonna celebrate"
	got := LRCToSRT(lrc)

	want := "1\n" +
		"00:00:12,000 --> 00:00:14,800\n" +
		"One more time\n" +
		"\n" +
		"2\n" +
		"00:00:15,300 --> 00:00:19,300\n" +
		"We're gonna celebrate\n"
	if got != want {
		t.Errorf("LRCToSRT =\n%q\nwant\n%q", got, want)
	}
}

func TestLRCToSRTCloseCues(t *testing.T) {
	// Cues closer together than the gap: the first must not end before it
	// starts.
	lrc := "[00:12.00] a\n[00:12.30] b"
	got := LRCToSRT(lrc)
	if strings.Contains(got, "00:00:12,000 --> 00:00:11") {
		t.Errorf("cue ends before it starts:\n%s", got)
	}
	if !strings.Contains(got, "00:00:12,000 --> 00:00:12,300") {
		t.Errorf("close cue not clamped to the next start:\n%s", got)
	}
}

func TestLRCToSRTEmpty(t *testing.T) {
	if got := LRCToSRT("no timestamps here"); got != "" {
		t.Errorf("LRCToSRT without cues = %q, want empty", got)
	}
}
