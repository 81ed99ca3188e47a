package extract

import "regexp"

// Compiled pattern library. Patterns are package-level so they compile once;
// all are safe for concurrent use.
var (
	// Phone numbers in the common NANP surface forms: (217) 555-0199,
	// 217-555-0199, 217.555.0199, 2175550199, +1 217 555 0199.
	phoneRE = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})\b`)

	emailRE = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Street addresses: house number, up to four name words, a street-suffix
	// word, optional unit, optional "City, ST ZIP" tail.
	streetAddressRE = regexp.MustCompile(`\b(\d{1,6})\s+(?:[A-Za-z0-9'.]+\s+){0,4}?(Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Court|Ct|Circle|Cir|Way|Place|Pl|Terrace|Ter|Parkway|Pkwy|Highway|Hwy)\.?\b(?:\s*,?\s*(?:Apt|Apartment|Unit|Suite|Ste|#)\.?\s*[\w-]+)?(?:,\s*[A-Za-z .]+?)?(?:,\s*([A-Z]{2}))?(?:\s+(\d{5}(?:-\d{4})?))?`)

	poBoxRE = regexp.MustCompile(`(?i)\bP\.?\s?O\.?\s?Box\s+\d+(?:,\s*[A-Za-z .]+?)?(?:,\s*([A-Z]{2}))?(?:\s+(\d{5}(?:-\d{4})?))?`)

	// Masked/partial SSNs only. A bare 9-digit SSN is never extracted;
	// that guard is deliberate and load-bearing.
	ssnMaskedRE = regexp.MustCompile(`(?:\*{3}|[Xx]{3})[-\s]?(?:\*{2}|[Xx]{2})[-\s]?(\d{4})\b`)

	// Ages: "age 34", "aged 34", "34 years old".
	ageLabelRE = regexp.MustCompile(`(?i)\bage[d]?[:\s]+(\d{1,3})\b`)
	ageYearsRE = regexp.MustCompile(`(?i)\b(\d{1,3})\s+years?\s+old\b`)

	// Dates in slash/dash/written forms plus "born ..." phrasing.
	dateNumericRE = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\d{4}-\d{2}-\d{2}\b`)
	dateWrittenRE = regexp.MustCompile(`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}\b`)
	bornRE        = regexp.MustCompile(`(?i)\bborn\s+(?:on\s+|in\s+)?([A-Za-z0-9 ,/-]{4,40}?\d{4}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)

	// Label-prefixed free-text captures. The captured group is length-bounded
	// at use sites (3-99 chars) to reject noise.
	relativeRE   = regexp.MustCompile(`\b(?i:related to|relatives?[:\s]|mother|father|brother|sister|son|daughter|spouse|wife|husband)[:\s,]*\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})`)
	associateRE  = regexp.MustCompile(`\b(?i:known associates?[:\s]|associated with|works with|roommate[:\s])\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})`)
	employmentRE = regexp.MustCompile(`\b(?i:works? (?:at|for)|employed (?:at|by)|employer[:\s])\s*([A-Z][\w&.,' -]{2,98}?)(?:[.;\n]|,\s|$)`)
	educationRE  = regexp.MustCompile(`\b(?i:graduated from|studied at|attended|alumn(?:us|a|i) of|degree (?:from|in))\s+([A-Z][\w&.,' -]{2,98}?)(?:[.;\n]|,\s|$)`)
	legalRE      = regexp.MustCompile(`(?i)\b(?:arrested for|charged with|convicted of|pleaded guilty to|lawsuit (?:over|against)|court records? (?:show|for))\s+([\w&.,' -]{3,99}?)(?:[.;\n]|$)`)

	// Vehicles: a strict 17-character VIN (charset excludes I, O, Q) or a
	// label-prefixed license plate.
	vinRE   = regexp.MustCompile(`\b[A-HJ-NPR-Z0-9]{17}\b`)
	plateRE = regexp.MustCompile(`\b(?i:license plate|plate)[:\s#]+([A-Z0-9]{2,4}[ -]?[A-Z0-9]{2,4})\b`)

	// Social handles and profile URLs.
	socialURLRE    = regexp.MustCompile(`(?i)\b(?:facebook|twitter|instagram|linkedin|tiktok)\.com/(?:in/)?[\w.-]{2,40}\b`)
	socialHandleRE = regexp.MustCompile(`(?:^|\s)@([A-Za-z0-9_]{3,30})\b`)

	// Money amounts; per-year phrasing marks salary, everything else is a
	// generic financial figure.
	moneyRE   = regexp.MustCompile(`\$\d{1,3}(?:,\d{3})*(?:\.\d{2})?(?:\s*(?:per\s+year|/\s*yr|annually|a\s+year))?`)
	perYearRE = regexp.MustCompile(`(?i)(?:per\s+year|/\s*yr|annually|a\s+year)$`)

	// Capitalized first-last pairs for name discovery. Deliberately loose;
	// the subject's own name and stopword-led pairs are filtered at use site.
	namePairRE = regexp.MustCompile(`\b([A-Z][a-z]{1,19}\s+[A-Z][a-z]{1,19})\b`)

	hasDigitRE  = regexp.MustCompile(`\d`)
	hasLetterRE = regexp.MustCompile(`[A-HJ-NPR-Z]`)
)

// nameStopwords are leading words that disqualify a capitalized pair from
// being treated as a person name ("Main Street", "New York", ...).
var nameStopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {},
	"new": {}, "north": {}, "south": {}, "east": {}, "west": {},
	"main": {}, "first": {}, "second": {}, "united": {}, "saint": {},
}

// streetSuffixWords is used to reject capitalized pairs that are address
// fragments rather than names.
var streetSuffixWords = map[string]struct{}{
	"street": {}, "st": {}, "avenue": {}, "ave": {}, "road": {}, "rd": {},
	"boulevard": {}, "blvd": {}, "drive": {}, "dr": {}, "lane": {}, "ln": {},
	"court": {}, "ct": {}, "circle": {}, "cir": {}, "way": {}, "place": {},
	"pl": {}, "terrace": {}, "ter": {}, "parkway": {}, "pkwy": {},
	"highway": {}, "hwy": {}, "box": {},
}
