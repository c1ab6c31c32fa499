package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed prompts/*.tmpl
var embeddedPrompts embed.FS

// Template names. Each is stored as <name>.tmpl.
const (
	promptInsights       = "insights"
	promptQuiz           = "quiz"
	promptLetter         = "letter"
	promptTip            = "tip"
	promptLetterFallback = "letter_fallback"
	promptTipFallback    = "tip_fallback"
)

var promptNames = []string{
	promptInsights,
	promptQuiz,
	promptLetter,
	promptTip,
	promptLetterFallback,
	promptTipFallback,
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"firstN": func(list []string, n int) []string {
		if len(list) > n {
			return list[:n]
		}
		return list
	},
}

// Prompts holds the parsed prompt templates.
type Prompts struct {
	templates map[string]*template.Template
}

// LoadPrompts parses the embedded templates. When dir is not empty, any
// <name>.tmpl file found there replaces the embedded template of that name.
func LoadPrompts(dir string) (*Prompts, error) {
	p := &Prompts{templates: make(map[string]*template.Template, len(promptNames))}

	for _, name := range promptNames {
		text, err := readPrompt(dir, name)
		if err != nil {
			return nil, err
		}

		tmpl, err := template.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse prompt template %s: %v", ErrInvalidTemplate, name, err)
		}
		p.templates[name] = tmpl
	}

	return p, nil
}

func readPrompt(dir, name string) (string, error) {
	file := name + ".tmpl"

	if dir != "" {
		b, err := os.ReadFile(filepath.Join(dir, file))
		switch {
		case err == nil:
			return string(b), nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("%w: failed to read prompt template %s: %v", ErrInvalidTemplate, file, err)
		}
	}

	b, err := embeddedPrompts.ReadFile("prompts/" + file)
	if err != nil {
		return "", fmt.Errorf("%w: missing embedded prompt %s: %v", ErrInvalidTemplate, file, err)
	}
	return string(b), nil
}

// Render executes the named template with data.
func (p *Prompts) Render(name string, data any) (string, error) {
	tmpl, ok := p.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: unknown prompt %q", ErrInvalidTemplate, name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template %s: %w", name, err)
	}

	return strings.TrimSpace(buf.String()), nil
}
