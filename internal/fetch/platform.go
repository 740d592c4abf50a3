package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

// Known job board platforms.
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

type platformRule struct {
	platform Platform
	hosts    []string // host suffixes
	content  []string
	noise    []string
}

var platformRules = []platformRule{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content: []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
			".job-post-container",
		},
		noise: []string{
			".application--wrapper",
			".voluntary-self-id",
			".voluntary-self-id-wrapper",
			"#usa_self_id_section",
			".post-apply",
		},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content: []string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
			".content",
		},
		noise: []string{
			".apply-section",
			".lever-application-form",
			".posting-apply",
		},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"workday.com", "myworkdayjobs.com"},
		content: []string{
			"[data-automation-id='jobDescription']",
			".job-description",
		},
		noise: []string{
			"[data-automation-id='applyButton']",
			".application-section",
		},
	},
	{
		platform: PlatformAshby,
		hosts:    []string{"ashbyhq.com"},
		content: []string{
			"[class*='_descriptionText']",
			"[class*='_content']",
			"main",
		},
		noise: []string{
			"[class*='_applicationForm']",
		},
	},
}

// commonNoise is removed on every platform.
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".application--container",
	".apply-button-container",
	"[data-testid='application-form']",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	"[data-testid='eeo']",
	".legal-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".social-links",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	if r := ruleFor(urlStr); r != nil {
		return r.platform
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for a platform.
func PlatformContentSelectors(platform Platform) []string {
	for _, r := range platformRules {
		if r.platform == platform {
			return append([]string{}, r.content...)
		}
	}
	return JobPostingSelectors()
}

// PlatformNoiseSelectors returns noise selectors for a platform, common
// noise included.
func PlatformNoiseSelectors(platform Platform) []string {
	out := append([]string{}, commonNoise...)
	for _, r := range platformRules {
		if r.platform == platform {
			return append(out, r.noise...)
		}
	}
	return out
}

func ruleFor(urlStr string) *platformRule {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil
	}
	host := strings.ToLower(parsed.Hostname())
	for i := range platformRules {
		for _, suffix := range platformRules[i].hosts {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return &platformRules[i]
			}
		}
	}
	return nil
}
