package inquiry

import (
	"regexp"
	"strings"
)

// MinTTSSeconds is the fastest plausible human fill time for the form.
// Anything under it is treated as automated.
const MinTTSSeconds = 5

// Content patterns that mark a submission as spam. Kept deliberately small:
// the honeypot and tts checks catch most bots, this is a backstop for the
// ones that fill the form properly.
var spamPatterns = []*regexp.Regexp{
	// common spam keywords
	regexp.MustCompile(`(?i)\b(viagra|cialis|casino|crypto\s*(signals|pump)|forex\s*trading|backlinks?|seo\s+(service|agency|expert)|guest\s*post)\b`),
	// embedded links
	regexp.MustCompile(`(?i)https?://|www\.[a-z0-9-]+\.[a-z]{2,}`),
	// markup / injection attempts
	regexp.MustCompile(`(?i)<\s*(script|iframe|img|a)\b|javascript:|on(error|load|click)\s*=`),
}

// ScanContent checks the free-text fields of a submission against the spam
// pattern set and returns the first matching pattern.
func ScanContent(name, company, vision string) (string, bool) {
	content := strings.Join([]string{name, company, vision}, " ")
	for _, re := range spamPatterns {
		if re.MatchString(content) {
			return re.String(), true
		}
	}
	return "", false
}

// TooFast reports whether the time-to-submit indicates an automated sender.
func TooFast(tts float64) bool {
	return tts < MinTTSSeconds
}

// HoneypotTripped reports whether the hidden form field was filled in.
func HoneypotTripped(hp string) bool {
	return strings.TrimSpace(hp) != ""
}
