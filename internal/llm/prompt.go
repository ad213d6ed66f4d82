package llm

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed prompt.tmpl
var basePromptTemplate string

var promptTmpl = template.Must(template.New("prompt").Parse(basePromptTemplate))

// PromptData holds the variables available in the base prompt template.
type PromptData struct {
	// TopicText is the topic clause appended to the opening instruction,
	// including its leading space, e.g. " about 'cats'".
	TopicText string
	// NavFormat is the shape deeper links should take, e.g. "./cats/subtopic".
	NavFormat string
	// CurrentPath is the request path, or "HOME" for the root page.
	CurrentPath string
}

// RenderPrompt executes the base prompt template. Substitution is purely
// textual, so identical inputs always yield an identical prompt.
func RenderPrompt(data PromptData) (string, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
