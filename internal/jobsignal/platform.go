package jobsignal

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the job board platform from the posting's source
// URL. The URL is only inspected, never fetched.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	switch {
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "workday.com"), strings.Contains(host, "myworkdayjobs.com"):
		return PlatformWorkday
	}
	return PlatformUnknown
}

// detectPlatformFromMarkup recognizes a saved job board page by the classes
// and attributes each board renders.
func detectPlatformFromMarkup(doc *goquery.Document) Platform {
	switch {
	case doc.Find(".job__description, #grnhse_app, .greenhouse-job-board").Length() > 0:
		return PlatformGreenhouse
	case doc.Find(".posting-page, .posting-description, .lever-application-form").Length() > 0:
		return PlatformLever
	case doc.Find("[data-automation-id='jobDescription']").Length() > 0:
		return PlatformWorkday
	}
	return PlatformUnknown
}

// contentSelectors returns the selectors tried, in order, for the posting
// body on platform.
func contentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
		}
	case PlatformLever:
		return []string{
			".posting-page",
			".posting-description",
			".content",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobDescription']",
			".job-description",
		}
	default:
		return []string{
			".job-description",
			"#job-description",
			".job-details",
			".posting-content",
			"[data-testid='job-description']",
			"main",
			"article",
			".content",
			"#content",
		}
	}
}

// noiseSelectors returns elements removed before extraction: page chrome,
// application forms and EEO boilerplate.
func noiseSelectors(platform Platform) []string {
	common := []string{
		"nav", "footer", "header", "script", "style", "noscript", "form",
		".application-form", "#application-form", ".apply-button-container",
		".eeo-statement", ".eeo-section", ".voluntary-disclosure", ".legal-disclosure",
		".social-share", ".share-buttons", ".cookie-banner", ".cookie-consent",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(common, ".application--wrapper", ".voluntary-self-id", "#usa_self_id_section")
	case PlatformLever:
		return append(common, ".apply-section", ".posting-apply")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']", ".application-section")
	default:
		return common
	}
}
