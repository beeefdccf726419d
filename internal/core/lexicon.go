package core

import (
	"regexp"
	"strings"
)

// The extractor's keyword and pattern lists live here as data so they can be
// audited and tested independently of the extraction logic. All phrase
// matching is case-insensitive and whole-word; a phrase may appear in more
// than one list and each list is counted independently.

// keywordPattern pairs a phrase with its compiled whole-word matcher.
type keywordPattern struct {
	phrase string
	re     *regexp.Regexp
}

func compilePhrases(phrases []string) []keywordPattern {
	patterns := make([]keywordPattern, 0, len(phrases))
	for _, phrase := range phrases {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
		patterns = append(patterns, keywordPattern{phrase: phrase, re: re})
	}
	return patterns
}

// countMatches sums the occurrences of every phrase in the list.
func countMatches(content string, patterns []keywordPattern) int {
	total := 0
	for _, p := range patterns {
		total += len(p.re.FindAllStringIndex(content, -1))
	}
	return total
}

// anyMatch reports whether at least one phrase in the list occurs.
func anyMatch(content string, patterns []keywordPattern) bool {
	for _, p := range patterns {
		if p.re.MatchString(content) {
			return true
		}
	}
	return false
}

var urgencyKeywords = compilePhrases([]string{
	"urgent", "immediately", "act now", "expires", "expire", "expiring",
	"asap", "right away", "final notice", "last chance", "deadline",
	"time sensitive", "respond now", "before it's too late", "hurry",
})

var suspiciousKeywords = compilePhrases([]string{
	"verify", "confirm", "click here", "password", "login", "sign in",
	"account", "security alert", "unusual activity", "suspended",
	"re-activate", "update your", "billing", "invoice", "refund",
	"unclaimed", "credentials",
})

var personalInfoKeywords = compilePhrases([]string{
	"password", "ssn", "social security", "credit card", "card number",
	"pin", "bank account", "account number", "date of birth",
	"mother's maiden name", "security question", "cvv", "routing number",
	"login credentials", "id number",
})

var cryptoKeywords = compilePhrases([]string{
	"bitcoin", "btc", "ethereum", "eth", "crypto", "cryptocurrency",
	"wallet address", "blockchain", "airdrop", "token sale", "ico",
	"seed phrase", "private key", "usdt", "double your coins",
})

var socialProofKeywords = compilePhrases([]string{
	"thousands of people", "millions of users", "everyone is",
	"join now", "don't miss out", "limited spots", "other customers",
	"users already claimed", "as seen on", "trusted by millions",
	"5-star rated",
})

var rewardKeywords = compilePhrases([]string{
	"you have won", "you've won", "winner", "prize", "claim your",
	"free gift", "congratulations", "lottery", "jackpot", "cash prize",
	"reward", "bonus", "giveaway",
})

var punishmentKeywords = compilePhrases([]string{
	"account will be closed", "account will be terminated", "legal action",
	"suspended", "terminated", "arrest", "lawsuit", "fine", "penalty",
	"prosecuted", "permanently blocked", "lose access", "deactivated",
})

var actionKeywords = compilePhrases([]string{
	"click here", "click below", "click the link", "open the attachment",
	"download now", "call now", "reply now", "act now", "sign in",
	"log in", "submit", "confirm now", "verify now", "tap here",
})

var misspellingKeywords = compilePhrases([]string{
	"recieve", "acount", "verfy", "pasword", "passwrd", "securty",
	"imediately", "informaton", "confirme", "guarentee", "occured",
	"untill", "succesful", "adress", "buisness", "offical", "bancking",
})

// Sentiment word lists. Tokens are matched exactly after lowercasing and
// trimming surrounding punctuation. Fear words weigh double: they correlate
// more strongly with manipulation than ordinary negative words.
var (
	positiveSentimentWords = toWordSet([]string{
		"free", "win", "won", "congratulations", "bonus", "reward",
		"gift", "guaranteed", "amazing", "exclusive", "great", "best",
		"incredible", "lucky",
	})
	negativeSentimentWords = toWordSet([]string{
		"problem", "issue", "failure", "failed", "suspended", "blocked",
		"denied", "unfortunately", "error", "invalid", "overdue",
		"declined",
	})
	fearSentimentWords = toWordSet([]string{
		"warning", "alert", "danger", "terminate", "terminated", "arrest",
		"lawsuit", "police", "fraud", "unauthorized", "breach", "hacked",
		"stolen", "compromised",
	})
)

func toWordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// Known URL-shortener hosts.
var shortenerHosts = []string{
	"bit.ly", "tinyurl.com", "goo.gl", "t.co", "ow.ly", "is.gd",
	"buff.ly", "rebrand.ly", "cutt.ly", "rb.gy", "shorturl.at", "tiny.cc",
}

// Top-level domains disproportionately used by phishing campaigns.
var suspiciousTLDs = []string{
	".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".club",
	".click", ".link", ".work", ".loan", ".zip", ".mov",
}

// Brand and institution names commonly impersonated. Matched as
// case-insensitive substrings; recorded lowercase, first seen first.
var impersonatedBrandNames = []string{
	"paypal", "amazon", "apple", "microsoft", "google", "netflix",
	"facebook", "instagram", "whatsapp", "bank of america", "wells fargo",
	"chase", "citibank", "irs", "dhl", "fedex", "ups", "usps",
	"coinbase", "binance", "spotify",
}

// Subject-verb agreement and article misuse patterns. A heuristic, not a
// grammar engine: false negatives are expected.
var grammarErrorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bi am are\b`),
	regexp.MustCompile(`(?i)\bi is\b`),
	regexp.MustCompile(`(?i)\bhe are\b`),
	regexp.MustCompile(`(?i)\bshe are\b`),
	regexp.MustCompile(`(?i)\bit are\b`),
	regexp.MustCompile(`(?i)\bthey is\b`),
	regexp.MustCompile(`(?i)\bwe is\b`),
	regexp.MustCompile(`(?i)\byou is\b`),
	regexp.MustCompile(`(?i)\ba [aeiou]\w+`),
	regexp.MustCompile(`(?i)\ban [bcdfghjklmnpqrstvwxz]\w+`),
}

// Temporal-pressure patterns.
var timeUrgencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bwithin \d+ (hour|minute|day)s?\b`),
	regexp.MustCompile(`(?i)\bexpires? (today|tonight|soon)\b`),
	regexp.MustCompile(`(?i)\b\d+ (hours?|minutes?) (left|remaining)\b`),
	regexp.MustCompile(`(?i)\bbefore midnight\b`),
	regexp.MustCompile(`(?i)\b(today|now) only\b`),
	regexp.MustCompile(`(?i)\blast \d+ (hours?|minutes?)\b`),
	regexp.MustCompile(`(?i)\bnext \d+ (hours?|minutes?) only\b`),
}

// Greeting, attachment and image presence patterns. The personal-greeting
// pattern captures the greeted word; the extractor rejects captures that are
// generic salutation terms ("Dear Customer" is generic, not personal).
var (
	personalGreetingPattern = regexp.MustCompile(`\b(?i:hi|hello|dear)[ \t]+([A-Z][a-z]+)\b`)
	genericGreetingPattern  = regexp.MustCompile(`(?i)\b(dear|hello)[ \t]+(customer|user|member|client|sir|madam|account holder|valued customer)\b`)
	greetingGenericTerms    = toWordSet([]string{
		"customer", "user", "member", "client", "sir", "madam",
		"valued", "account", "team", "support", "there",
	})
	attachmentRefPattern    = regexp.MustCompile(`(?i)(\battach(ed|ment)s?\b|\.(zip|exe|scr|rar|7z|docm|xlsm)\b)`)
	imageRefPattern         = regexp.MustCompile(`(?i)(<img\b|\[image\]|\.(png|jpe?g|gif)\b)`)
)

// techIndicator is one code-injection/obfuscation marker with its point
// value; the technical-sophistication score is the sum over all matches.
type techIndicator struct {
	name   string
	points int
	re     *regexp.Regexp
}

var techIndicators = []techIndicator{
	{"script_uri", 2, regexp.MustCompile(`(?i)javascript:`)},
	{"inline_handler", 2, regexp.MustCompile(`(?i)\bon(click|load|error|mouseover|submit)\s*=`)},
	{"base64_token", 3, regexp.MustCompile(`[A-Za-z0-9+/]{40,}={0,2}`)},
	{"html_entity", 1, regexp.MustCompile(`&#x?[0-9a-fA-F]+;|&[a-z]{2,8};`)},
	{"unicode_escape", 2, regexp.MustCompile(`\\u[0-9a-fA-F]{4}`)},
	{"embedded_frame", 2, regexp.MustCompile(`(?i)<(iframe|embed|object)\b`)},
	{"data_uri", 2, regexp.MustCompile(`(?i)data:text/html`)},
}
