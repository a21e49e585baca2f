package fetch

import "math/rand/v2"

// BotUserAgent is the self-describing user agent used when the caller
// asks to identify openly as an audit bot.
const BotUserAgent = "Mozilla/5.0 (compatible; GEO-Audit-Bot/1.0; +https://ticoet.fr)"

// chromeUserAgent is the default desktop browser identity used by the
// realistic-browser strategy.
const chromeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"

// crawlerUserAgents are search-engine crawler identities. Sites that
// want to be indexed usually let these through even when they block
// everything else. Order matters: the crawler strategy tries them in
// sequence.
var crawlerUserAgents = []string{
	"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
	"Mozilla/5.0 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)",
	"DuckDuckBot/1.0; (+http://duckduckgo.com/duckduckbot.html)",
}

// desktopUserAgents is the rotation pool for the user-agent rotation
// strategy. Mixed browsers and platforms so repeated audits do not
// present a single fingerprint.
var desktopUserAgents = []string{
	chromeUserAgent,
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/120.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
}

// mobileUserAgents is the rotation pool for the mobile strategy. Some
// anti-bot configurations are tuned for desktop traffic and serve
// mobile clients a lighter page.
var mobileUserAgents = []string{
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (Linux; Android 13; SM-S918B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (iPad; CPU OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
}

// randomDesktopUserAgent picks one desktop identity at random.
func randomDesktopUserAgent() string {
	return desktopUserAgents[rand.IntN(len(desktopUserAgents))]
}

// randomMobileUserAgent picks one mobile identity at random.
func randomMobileUserAgent() string {
	return mobileUserAgents[rand.IntN(len(mobileUserAgents))]
}
