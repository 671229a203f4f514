package texttospeech

import (
	"regexp"
	"strings"
)

var (
	codeFenceRe     = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe    = regexp.MustCompile("`([^`]*)`")
	linkRe          = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	boldRe          = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	italicRe        = regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`)
	strikethroughRe = regexp.MustCompile(`~~([^~]+)~~`)
	headingRe       = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	blockquoteRe    = regexp.MustCompile(`(?m)^>\s?`)
	listMarkerRe    = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+\.)\s+`)
	horizontalRe    = regexp.MustCompile(`(?m)^\s*(?:-{3,}|\*{3,}|_{3,})\s*$`)
	ellipsisRe      = regexp.MustCompile(`(?:\.{3,}|…+)`)
	newlinePadRe    = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	paragraphRe     = regexp.MustCompile(`\n{2,}`)
	punctuatedRe    = regexp.MustCompile(`([.!?:;,])\x00`)
	spaceRe         = regexp.MustCompile(`[ \t]{2,}`)
)

// StripMarkdown reduces markdown-formatted text to something a voice can
// read aloud: formatting markers are removed, links keep only their visible
// text, paragraph breaks become sentence breaks. Applying it to already
// plain text changes nothing.
func StripMarkdown(text string) string {
	text = codeFenceRe.ReplaceAllString(text, "")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	text = boldRe.ReplaceAllString(text, "$1$2")
	text = italicRe.ReplaceAllString(text, "$1$2")
	text = strikethroughRe.ReplaceAllString(text, "$1")
	text = horizontalRe.ReplaceAllString(text, "")
	text = headingRe.ReplaceAllString(text, "")
	text = blockquoteRe.ReplaceAllString(text, "")
	text = listMarkerRe.ReplaceAllString(text, "")
	text = ellipsisRe.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "|", " ")

	text = newlinePadRe.ReplaceAllString(text, "\n")
	text = paragraphRe.ReplaceAllString(text, "\x00")
	text = strings.ReplaceAll(text, "\n", " ")
	text = punctuatedRe.ReplaceAllString(text, "$1 ")
	text = strings.ReplaceAll(text, "\x00", ". ")

	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
