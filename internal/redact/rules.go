package redact

import "regexp"

// Category names a class of personally identifiable information.
type Category string

// Recognized PII categories. The string values double as the default
// replacement token names.
const (
	CategoryURL            Category = "url"
	CategoryEmail          Category = "email"
	CategoryIPAddress      Category = "ipAddress"
	CategoryCreditCard     Category = "creditCard"
	CategorySSN            Category = "ssn"
	CategoryPhone          Category = "phone"
	CategoryDateOfBirth    Category = "dateOfBirth"
	CategoryAddress        Category = "address"
	CategoryPassport       Category = "passport"
	CategoryDriversLicense Category = "driversLicense"
	CategoryBankAccount    Category = "bankAccount"
	CategoryZipCode        Category = "zipCode"
)

// piiGroup is the capture group name a pattern uses when only part of its
// match is sensitive (e.g. the number after "passport no."). Patterns
// without it have their whole match replaced.
const piiGroup = "pii"

// matcher binds a category to its compiled patterns.
type matcher struct {
	category Category
	patterns []*regexp.Regexp
}

// matchers is the fixed application order. URLs and emails run before the
// digit-run categories so a phone-like number inside a URL is consumed with
// the URL, and the loose zip code pattern runs last.
var matchers = []matcher{
	{CategoryURL, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"']*[^\s<>"'.,;:!?)\]]`),
	}},
	{CategoryEmail, []*regexp.Regexp{
		regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
	}},
	{CategoryIPAddress, []*regexp.Regexp{
		regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)\.){3}(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)\b`),
	}},
	{CategoryCreditCard, []*regexp.Regexp{
		regexp.MustCompile(`\b(?:\d{4}[ -]?){3}\d{4}\b`),
		regexp.MustCompile(`\b3[47]\d{2}[ -]?\d{6}[ -]?\d{5}\b`),
	}},
	{CategorySSN, []*regexp.Regexp{
		regexp.MustCompile(`\b\d{3}[- ]\d{2}[- ]\d{4}\b`),
	}},
	{CategoryPhone, []*regexp.Regexp{
		regexp.MustCompile(`(?:\+\d{1,3}[\s.-]?(?:\(\d{3}\)|\d{3})|\(\d{3}\)|\b\d{3})[\s.-]?\d{3}[\s.-]?\d{4}\b`),
	}},
	{CategoryDateOfBirth, []*regexp.Regexp{
		regexp.MustCompile(`\b(?:0?[1-9]|[12]\d|3[01])[/.\-](?:0?[1-9]|[12]\d|3[01])[/.\-](?:19|20)\d{2}\b`),
		regexp.MustCompile(`\b(?:19|20)\d{2}-(?:0[1-9]|1[0-2])-(?:0[1-9]|[12]\d|3[01])\b`),
	}},
	{CategoryAddress, []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,6}\s+(?:[A-Z][A-Za-z0-9'\-]*\s+){1,4}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Way|Place|Pl|Terrace|Parkway|Pkwy|Circle|Cir|Highway|Hwy)\b`),
	}},
	{CategoryPassport, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bpassport(?:\s+(?:no|number|num|#))?\.?\s*[:#]?\s*(?P<pii>[A-Z]{0,2}\d{6,9})\b`),
	}},
	{CategoryDriversLicense, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:driver'?s?\s+licen[cs]e|DL)(?:\s+(?:no|number|num|#))?\.?\s*[:#]?\s*(?P<pii>[A-Z]{0,2}\d{5,12})\b`),
	}},
	{CategoryBankAccount, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:bank\s+)?(?:account|acct)(?:\s+(?:no|number|num|#))?\.?\s*[:#]?\s*(?P<pii>\d{6,17})\b`),
		regexp.MustCompile(`\b[A-Z]{2}\d{2}(?: ?[A-Z0-9]{4}){2,7}(?: ?[A-Z0-9]{1,3})?\b`),
	}},
	{CategoryZipCode, []*regexp.Regexp{
		regexp.MustCompile(`(?:^|[^$,.\w])(?P<pii>\d{5}(?:-\d{4})?)\b`),
	}},
}

// Order returns the categories in the order they are applied.
func Order() []Category {
	out := make([]Category, len(matchers))
	for i, m := range matchers {
		out[i] = m.category
	}
	return out
}
