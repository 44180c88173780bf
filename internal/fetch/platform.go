package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known career-site family.
type Platform string

const (
	// PlatformCreditAgricole is the groupecreditagricole.jobs site
	PlatformCreditAgricole Platform = "credit_agricole"
	// PlatformSocieteGenerale is the careers.societegenerale.com site
	PlatformSocieteGenerale Platform = "societe_generale"
	// PlatformDeloitte is the deloitte.com careers section
	PlatformDeloitte Platform = "deloitte"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the career site family from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	switch {
	case strings.HasSuffix(host, "groupecreditagricole.jobs"):
		return PlatformCreditAgricole
	case strings.HasSuffix(host, "societegenerale.com"):
		return PlatformSocieteGenerale
	case strings.HasSuffix(host, "deloitte.com"):
		return PlatformDeloitte
	case strings.Contains(host, "myworkdayjobs.com"), strings.Contains(host, "workday.com"):
		return PlatformWorkday
	}

	return PlatformUnknown
}

// PlatformContentSelectors returns description selectors for a platform,
// most specific first.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformCreditAgricole:
		return []string{"section.offer-content", ".offer-content"}
	case PlatformSocieteGenerale:
		return []string{"div.wysiwyg", "main"}
	case PlatformDeloitte:
		return []string{".deloitte-content-main-bloc", ".deloitte-content-bloc"}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobPostingDescription']",
			"[data-automation-id='jobDescription']",
			".job-description",
		}
	default:
		return JobPostingSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a platform.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		".apply-button-container",
		".social-share",
		".share-buttons",
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformCreditAgricole:
		return append(common, ".offer-share", ".similar-offers")
	case PlatformSocieteGenerale:
		return append(common, ".js-pager", ".related-offers")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']", ".WDAF")
	default:
		return common
	}
}
