// Package sanitize strips the XML wrapper tags the upstream tool embeds in
// message content, so titles and topics come from what the user actually
// typed.
package sanitize

import (
	"regexp"
	"strings"
)

var xmlTagPattern = regexp.MustCompile(
	`</?(?:local-command-(?:stdout|stderr|caveat)|command-(?:output|name|args|message)|` +
		`system-reminder|task-(?:id|notification)|persisted-output|thinking|tool-use-id|` +
		`tool|skill-name)[^>]*>`,
)

// StripTags removes the wrapper tags from text.
func StripTags(text string) string {
	return strings.TrimSpace(xmlTagPattern.ReplaceAllString(text, ""))
}
