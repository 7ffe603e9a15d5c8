package analytics

import "strings"

// uaRule is one ordered classification rule: the first rule whose marker
// appears in the user-agent string wins, so rule order is load-bearing.
// Chrome, Edge and Opera user-agents also contain "Safari" and/or "Chrome",
// which is why the specific markers come first.
type uaRule struct {
	Name    string
	Markers []string
}

var browserRules = []uaRule{
	{Name: "Firefox", Markers: []string{"Firefox"}},
	{Name: "Edge", Markers: []string{"Edg"}},
	{Name: "Chrome", Markers: []string{"Chrome"}},
	{Name: "Safari", Markers: []string{"Safari"}},
	{Name: "Opera", Markers: []string{"Opera", "OPR"}},
}

var osRules = []uaRule{
	{Name: "Windows", Markers: []string{"Windows"}},
	{Name: "macOS", Markers: []string{"Macintosh", "Mac OS"}},
	{Name: "iOS", Markers: []string{"iPhone", "iPad"}},
	{Name: "Android", Markers: []string{"Android"}},
	{Name: "Linux", Markers: []string{"Linux"}},
	{Name: "ChromeOS", Markers: []string{"CrOS"}},
}

var mobileMarkers = []string{"Mobile", "Android", "iPhone", "iPad"}

func classify(rules []uaRule, userAgent string) string {
	for _, rule := range rules {
		for _, marker := range rule.Markers {
			if strings.Contains(userAgent, marker) {
				return rule.Name
			}
		}
	}
	return "Other"
}

// ClassifyBrowser maps a raw user-agent string to a browser family name.
func ClassifyBrowser(userAgent string) string {
	return classify(browserRules, userAgent)
}

// ClassifyOS maps a raw user-agent string to an operating system name.
func ClassifyOS(userAgent string) string {
	return classify(osRules, userAgent)
}

// IsMobile reports whether the user-agent carries any mobile marker.
func IsMobile(userAgent string) bool {
	for _, marker := range mobileMarkers {
		if strings.Contains(userAgent, marker) {
			return true
		}
	}
	return false
}
