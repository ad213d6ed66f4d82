package app

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"anysite/internal/llm"
)

const (
	// homePath is the CurrentPath value the root page reports to the prompt.
	homePath         = "HOME"
	defaultTopicText = " about any interesting topic you choose"
	maxPathDepth     = 4
)

var inputPolicy = bluemonday.StrictPolicy()
var javascriptScheme = regexp.MustCompile(`(?i)javascript:`)

// SanitizeInput strips HTML tags and script-like content from raw request
// input before it is embedded in a prompt.
func SanitizeInput(text string) string {
	if text == "" {
		return ""
	}
	cleaned := inputPolicy.Sanitize(text)
	cleaned = javascriptScheme.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// splitSegments breaks a request path into its non-empty segments.
func splitSegments(path string) []string {
	var segments []string
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

// promptForPath builds prompt data for a non-empty path. Paths with more than
// one segment carry a clause tying the subpage back to its parent topic.
func promptForPath(path string) llm.PromptData {
	topic := path
	if segments := splitSegments(path); len(segments) > 1 {
		parent := segments[0]
		subpage := strings.Join(segments[1:], "/")
		topic = fmt.Sprintf("%s (This is a subpage '%s' under the main topic '%s'. Create content specifically for this subpage while relating it back to %s.)",
			path, subpage, parent, parent)
	}
	return llm.PromptData{
		TopicText:   fmt.Sprintf(" about '%s'", topic),
		NavFormat:   "./" + path + "/subtopic",
		CurrentPath: path,
	}
}

// promptForHome builds prompt data for the root page. A query value stands in
// for the topic when one is present; otherwise the model picks its own.
func promptForHome(query url.Values) llm.PromptData {
	if topic := SanitizeInput(queryTopic(query)); topic != "" {
		return promptForPath(topic)
	}
	return llm.PromptData{
		TopicText:   defaultTopicText,
		NavFormat:   "./topic/subtopic",
		CurrentPath: homePath,
	}
}

// queryTopic picks the topic out of the query string: the query or prompt
// keys win, then any other non-empty value, then a bare key name.
func queryTopic(values url.Values) string {
	for _, key := range []string{"query", "prompt"} {
		if v := values.Get(key); v != "" {
			return v
		}
	}
	for key, vals := range values {
		if key == "query" || key == "prompt" {
			continue
		}
		for _, v := range vals {
			if v != "" {
				return v
			}
		}
	}
	for key := range values {
		if key != "" {
			return key
		}
	}
	return ""
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripDiacritics(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return stripped
}

// TopicPhrase converts a request path into a human-friendly phrase for the
// page title.
func TopicPhrase(path string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '/':
			return ' '
		}
		return r
	}, stripDiacritics(path))

	words := strings.Fields(cleaned)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
