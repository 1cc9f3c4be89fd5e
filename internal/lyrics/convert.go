package lyrics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	lrcTimestampRe = regexp.MustCompile(`\[\d{2}:\d{2}\.\d{2,3}\]`)
	lrcKaraokeRe   = regexp.MustCompile(`<\d{2}:\d{2}\.\d{2,3}>`)
	lrcLineRe      = regexp.MustCompile(`^\[(\d{2}):(\d{2})\.(\d{2,3})\](.*)$`)
)

// LRCToPlain strips the timing information from an LRC document, leaving the
// bare lines of text. Blank lines disappear with their timestamps.
func LRCToPlain(lrc string) string {
	if lrc == "" {
		return ""
	}
	stripped := lrcTimestampRe.ReplaceAllString(lrc, "")
	stripped = lrcKaraokeRe.ReplaceAllString(stripped, "")

	var lines []string
	for _, line := range strings.Split(stripped, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

type lrcCue struct {
	at   time.Duration
	text string
}

// LRCToSRT converts an LRC document into SRT subtitles. LRC only carries
// start times, so each cue ends half a second before the next one starts; the
// last cue is held for four seconds.
func LRCToSRT(lrc string) string {
	cues := parseLRCCues(lrc)
	if len(cues) == 0 {
		return ""
	}

	var b strings.Builder
	for i, cue := range cues {
		var end time.Duration
		if i+1 < len(cues) {
			end = cues[i+1].at - 500*time.Millisecond
			if end < cue.at {
				end = cues[i+1].at
			}
		} else {
			end = cue.at + 4*time.Second
		}

		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, srtTimestamp(cue.at), srtTimestamp(end), cue.text)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func parseLRCCues(lrc string) []lrcCue {
	var cues []lrcCue
	for _, line := range strings.Split(lrc, "\n") {
		m := lrcLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		frac := m[3]
		if len(frac) == 2 {
			frac += "0"
		}
		millis, _ := strconv.Atoi(frac)

		text := strings.TrimSpace(lrcKaraokeRe.ReplaceAllString(m[4], ""))
		if text == "" {
			continue
		}

		cues = append(cues, lrcCue{
			at: time.Duration(minutes)*time.Minute +
				time.Duration(seconds)*time.Second +
				time.Duration(millis)*time.Millisecond,
			text: text,
		})
	}
	return cues
}

func srtTimestamp(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	ms := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
