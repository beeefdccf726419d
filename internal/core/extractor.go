package core

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/nyaruka/phonenumbers"
)

var (
	urlPattern            = regexp.MustCompile(`(?i)https?://[^\s<>"']+`)
	phoneCandidatePattern = regexp.MustCompile(`\+?[0-9][0-9\-\s().]{6,18}[0-9]`)
)

// ExtractFeatures parses raw content into a feature record. It is pure and
// total: malformed or empty input yields zero/false defaults, never an
// error. The content type does not change the schema, only which scoring
// rules later apply.
func ExtractFeatures(content string, contentType ContentType) *FeatureRecord {
	f := &FeatureRecord{}

	urls := urlPattern.FindAllString(content, -1)
	f.LinkCount = len(urls)

	firstHost := ""
	if len(urls) > 0 {
		first := urls[0]
		firstHost = hostOf(first)
		f.URLLength = len(first)
		f.DomainLength = len(firstHost)
		f.SubdomainCount = subdomainCount(firstHost)
		f.HasIPAddress = net.ParseIP(firstHost) != nil
		f.UsesHTTPS = strings.HasPrefix(strings.ToLower(first), "https://")
	}
	f.HasShortener = hasShortenerHost(content, urls)
	f.HasSuspiciousTLD = hasSuspiciousTLD(urls)

	f.UrgencyWords = countMatches(content, urgencyKeywords)
	f.SuspiciousWords = countMatches(content, suspiciousKeywords)
	f.SpellingErrors = countMatches(content, misspellingKeywords)
	f.GrammarErrors = countGrammarErrors(content)
	f.ImageCount = len(imageRefPattern.FindAllStringIndex(content, -1))

	f.HasPersonalGreeting = hasPersonalGreeting(content)
	f.HasGenericGreeting = genericGreetingPattern.MatchString(content)
	f.RequestsPersonalInfo = anyMatch(content, personalInfoKeywords)
	f.HasAttachmentRef = attachmentRefPattern.MatchString(content)

	f.CreatesUrgency = f.UrgencyWords > 0
	f.OffersReward = anyMatch(content, rewardKeywords)
	f.ThreatensPunishment = anyMatch(content, punishmentKeywords)
	f.RequestsAction = anyMatch(content, actionKeywords)

	f.SentimentScore = sentimentScore(content)
	f.ReadabilityScore = readabilityScore(content)
	f.ImpersonatedBrands = impersonatedBrands(content, firstHost)
	f.CryptoKeywords = countMatches(content, cryptoKeywords)
	f.SocialProofCount = countMatches(content, socialProofKeywords)
	f.TimeUrgencyCount = countTimeUrgency(content)
	f.TechSophistication = techSophisticationScore(content)

	f.PhoneNumbers, f.PremiumRateNumbers = extractPhoneNumbers(content)

	return f
}

// FirstURLHost returns the host of the first URL in the content, lowercased
// and without a port, or "" when the content contains no URL.
func FirstURLHost(content string) string {
	if m := urlPattern.FindString(content); m != "" {
		return hostOf(m)
	}
	return ""
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.ToLower(parsed.Host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.Trim(host, "[]")
}

// subdomainCount counts dot-separated labels beyond the registrable domain,
// clamped at zero so single-label hosts ("localhost") do not go negative.
func subdomainCount(host string) int {
	if host == "" || net.ParseIP(host) != nil {
		return 0
	}
	n := strings.Count(host, ".") - 1
	if n < 0 {
		return 0
	}
	return n
}

// hasShortenerHost checks every URL host against the shortener list; a raw
// substring check covers scheme-less mentions like "bit.ly/x".
func hasShortenerHost(content string, urls []string) bool {
	lower := strings.ToLower(content)
	for _, short := range shortenerHosts {
		if strings.Contains(lower, short) {
			return true
		}
	}
	for _, u := range urls {
		host := hostOf(u)
		for _, short := range shortenerHosts {
			if host == short || strings.HasSuffix(host, "."+short) {
				return true
			}
		}
	}
	return false
}

func hasSuspiciousTLD(urls []string) bool {
	for _, u := range urls {
		host := hostOf(u)
		if host == "" || net.ParseIP(host) != nil {
			continue
		}
		for _, tld := range suspiciousTLDs {
			if strings.HasSuffix(host, tld) {
				return true
			}
		}
	}
	return false
}

func countGrammarErrors(content string) int {
	total := 0
	for _, re := range grammarErrorPatterns {
		total += len(re.FindAllStringIndex(content, -1))
	}
	return total
}

// hasPersonalGreeting reports a salutation addressed to a capitalized name
// that is not one of the generic salutation terms.
func hasPersonalGreeting(content string) bool {
	for _, m := range personalGreetingPattern.FindAllStringSubmatch(content, -1) {
		name := strings.ToLower(m[1])
		if _, generic := greetingGenericTerms[name]; !generic {
			return true
		}
	}
	return false
}

// sentimentScore tokenizes on whitespace and sums +1 per positive word,
// -1 per negative word and -2 per fear word, clamped to [-10, 10].
func sentimentScore(content string) int {
	score := 0
	for _, token := range strings.Fields(content) {
		word := strings.ToLower(strings.Trim(token, `.,!?:;"'()[]{}<>`))
		if _, ok := positiveSentimentWords[word]; ok {
			score++
		} else if _, ok := negativeSentimentWords[word]; ok {
			score--
		} else if _, ok := fearSentimentWords[word]; ok {
			score -= 2
		}
	}
	return clampInt(score, -10, 10)
}

// readabilityScore approximates Flesch Reading Ease, clamped to [0, 100].
// Zero sentences or zero words score 0 rather than dividing by zero.
func readabilityScore(content string) float64 {
	sentences := 0
	for _, seg := range strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(seg) != "" {
			sentences++
		}
	}
	words := strings.Fields(content)
	if sentences == 0 || len(words) == 0 {
		return 0
	}

	syllables := 0
	for _, w := range words {
		syllables += syllableCount(w)
	}

	score := 206.835 -
		1.015*(float64(len(words))/float64(sentences)) -
		84.6*(float64(syllables)/float64(len(words)))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// syllableCount estimates syllables by counting transitions into vowel
// groups, dropping a trailing silent "e", with a floor of one per word.
func syllableCount(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, "e") {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

// impersonatedBrands collects brand names appearing in the content, plus
// lookalike matches of the first URL's registrable label ("paypa1" for
// "paypal"). First-seen order, deduplicated, lowercase.
func impersonatedBrands(content, firstHost string) []string {
	lower := strings.ToLower(content)
	var brands []string
	seen := make(map[string]struct{})

	add := func(brand string) {
		if _, dup := seen[brand]; !dup {
			seen[brand] = struct{}{}
			brands = append(brands, brand)
		}
	}

	for _, brand := range impersonatedBrandNames {
		if strings.Contains(lower, brand) {
			add(brand)
		}
	}

	if label := registrableLabel(firstHost); len(label) >= 5 {
		for _, brand := range impersonatedBrandNames {
			if strings.Contains(brand, " ") || label == brand {
				continue
			}
			if fuzzy.LevenshteinDistance(label, brand) == 1 {
				add(brand)
			}
		}
	}

	return brands
}

// registrableLabel returns the label left of the TLD ("paypa1" for
// "login.paypa1.com"), or "" for IPs and single-label hosts.
func registrableLabel(host string) string {
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return ""
	}
	return labels[len(labels)-2]
}

func countTimeUrgency(content string) int {
	total := 0
	for _, re := range timeUrgencyPatterns {
		total += len(re.FindAllStringIndex(content, -1))
	}
	return total
}

// techSophisticationScore sums fixed point values for each code-injection
// or obfuscation indicator present. Additive, not boolean.
func techSophisticationScore(content string) int {
	score := 0
	for _, ind := range techIndicators {
		if ind.re.MatchString(content) {
			score += ind.points
		}
	}
	return score
}

// extractPhoneNumbers parses phone-number candidates and reports the
// E.164-normalized numbers plus how many are premium-rate. Unparseable
// candidates are skipped.
func extractPhoneNumbers(content string) ([]string, int) {
	var numbers []string
	seen := make(map[string]struct{})
	premium := 0

	for _, candidate := range phoneCandidatePattern.FindAllString(content, -1) {
		num, err := phonenumbers.Parse(candidate, "US")
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		e164 := phonenumbers.Format(num, phonenumbers.E164)
		if _, dup := seen[e164]; dup {
			continue
		}
		seen[e164] = struct{}{}
		numbers = append(numbers, e164)
		if phonenumbers.GetNumberType(num) == phonenumbers.PREMIUM_RATE {
			premium++
		}
	}

	return numbers, premium
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
