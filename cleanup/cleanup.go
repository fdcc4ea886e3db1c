// Package cleanup holds the regex passes applied to extracted text: the
// per sub-chunk cleaning used by the remote extractor and the standalone
// Sanitize utility.
package cleanup

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	latinRe     = regexp.MustCompile(`[a-zA-Z]+`)
	newlinesRe  = regexp.MustCompile(`\n{2,}`)
	boilerplate = regexp.MustCompile(`^(?:#+\s*)?(?:Additional Elements|Visual Elements|Map Details|Map Description|Map Annotations)`)

	// Sanitize passes, applied in this order.
	noiseRe        = regexp.MustCompile(`[a-zA-Z#,.()-]+`)
	blankLinesRe   = regexp.MustCompile(`\n[\s\v\p{Z}]*\n+`)
	asteriskRe     = regexp.MustCompile(`\*`)
	spacesRe       = regexp.MustCompile(`[ ]{2,}`)
	emptyBracketRe = regexp.MustCompile(`\(\s*\)|\{\s*\}|\[\s*\]|<\s*>`)

	// Needs lookaround, which RE2 does not support.
	emptyQuoteRe = regexp2.MustCompile(`(?<!\S)(\*?:\s*|""\s*|"\s*"|[0-9]+\s*\*\s*[0-9]*\*:)\s*(?!\S)`, regexp2.None)
)

// BoilerplateHeaders are the labels the analysis API emits for non-text
// regions. Sub-chunks starting with one of them are dropped.
var BoilerplateHeaders = []string{
	"Additional Elements",
	"Visual Elements",
	"Map Details",
	"Map Description",
	"Map Annotations",
}

// RemoveLatin deletes every run of ASCII letters
func RemoveLatin(text string) string {
	return latinRe.ReplaceAllString(text, "")
}

// CollapseNewlines replaces runs of two or more newlines with one
func CollapseNewlines(text string) string {
	return newlinesRe.ReplaceAllString(text, "\n")
}

// IsBoilerplate reports whether text starts with a known boilerplate
// header, with or without a markdown heading prefix.
func IsBoilerplate(text string) bool {
	return boilerplate.MatchString(strings.TrimSpace(text))
}

// CleanSubChunk prepares one sub-chunk of API output. The second return
// value is false when the sub-chunk should be discarded.
func CleanSubChunk(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if IsBoilerplate(text) {
		return "", false
	}

	cleaned := CollapseNewlines(RemoveLatin(text))
	if strings.TrimSpace(cleaned) == "" {
		return "", false
	}

	return cleaned, true
}

// Sanitize strips Latin words, listed punctuation, asterisks, blank lines,
// repeated spaces and empty quote or bracket leftovers. Passes repeat until
// the text stops changing, so Sanitize is idempotent.
func Sanitize(text string) string {
	// Every pass that changes the text makes it shorter.
	for i := 0; i <= len(text); i++ {
		next := sanitizePass(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func sanitizePass(text string) string {
	text = noiseRe.ReplaceAllString(text, "")
	text = blankLinesRe.ReplaceAllString(text, "\n")
	text = asteriskRe.ReplaceAllString(text, "")
	text = spacesRe.ReplaceAllString(text, " ")

	// Replace only fails on a match timeout, and none is set.
	if replaced, err := emptyQuoteRe.Replace(text, "", -1, -1); err == nil {
		text = replaced
	}

	text = emptyBracketRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
