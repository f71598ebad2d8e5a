package service

import (
	"regexp"

	"github.com/sf-developer/video-player/internal/model"
)

// Unknown is the label used when no signature matches.
const Unknown = "Unknown"

type signature struct {
	re    *regexp.Regexp
	label string
}

func sig(pattern, label string) signature {
	return signature{re: regexp.MustCompile("(?i)" + pattern), label: label}
}

// osSignatures is ordered so that the most specific platform wins: mobile
// platforms before the desktop kernels their agents also mention.
var osSignatures = []signature{
	sig(`webos`, "Mobile"),
	sig(`blackberry`, "BlackBerry"),
	sig(`android`, "Android"),
	sig(`ipad`, "iPad"),
	sig(`ipod`, "iPod"),
	sig(`iphone`, "iPhone"),
	sig(`ubuntu`, "Ubuntu"),
	sig(`linux`, "Linux"),
	sig(`mac_powerpc`, "Mac OS 9"),
	sig(`macintosh|mac os x`, "Mac OS X"),
	sig(`win16`, "Windows 3.11"),
	sig(`win95`, "Windows 95"),
	sig(`win98`, "Windows 98"),
	sig(`windows me`, "Windows ME"),
	sig(`windows nt 5\.0`, "Windows 2000"),
	sig(`windows xp`, "Windows XP"),
	sig(`windows nt 5\.1`, "Windows XP"),
	sig(`windows nt 5\.2`, "Windows Server 2003/XP x64"),
	sig(`windows nt 6\.0`, "Windows Vista"),
	sig(`windows nt 6\.1`, "Windows 7"),
	sig(`windows nt 6\.2`, "Windows 8"),
	sig(`windows nt 6\.3`, "Windows 8.1"),
	sig(`windows nt 10`, "Windows 10"),
}

// browserSignatures: Chrome-based agents also carry "safari", Edge agents
// also carry "chrome".
var browserSignatures = []signature{
	sig(`mobile`, "Handheld Browser"),
	sig(`konqueror`, "Konqueror"),
	sig(`maxthon`, "Maxthon"),
	sig(`netscape`, "Netscape"),
	sig(`opera`, "Opera"),
	sig(`edge`, "Edge"),
	sig(`chrome`, "Chrome"),
	sig(`safari`, "Safari"),
	sig(`firefox`, "Firefox"),
	sig(`msie`, "Internet Explorer"),
}

var deviceSignatures = []signature{
	sig(`mobile`, "Mobile"),
	sig(`tablet`, "Tablet"),
}

// matchFirst returns the label of the first matching signature.
func matchFirst(table []signature, ua, fallback string) string {
	for _, s := range table {
		if s.re.MatchString(ua) {
			return s.label
		}
	}
	return fallback
}

// ParseUserAgent derives device, OS and browser labels from a user agent.
func ParseUserAgent(ua string) model.Agent {
	return model.Agent{
		Device:  matchFirst(deviceSignatures, ua, "PC"),
		OS:      matchFirst(osSignatures, ua, Unknown),
		Browser: matchFirst(browserSignatures, ua, Unknown),
	}
}
