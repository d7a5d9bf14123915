package rendering

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/cv-ats/internal/types"
)

//go:embed templates/cv.txt.tmpl
var templateFS embed.FS

const defaultTemplate = "templates/cv.txt.tmpl"

var funcs = template.FuncMap{
	"flatten": Flatten,
	"join":    func(items []string) string { return strings.Join(items, ", ") },
	"pair":    pair,
}

var plainText = template.Must(template.New("cv.txt.tmpl").Funcs(funcs).ParseFS(templateFS, defaultTemplate))

// PlainText renders cv with the built-in template. A nil cv renders as an
// empty string.
func PlainText(cv *types.ParsedCV) string {
	if cv == nil {
		return ""
	}
	out, err := execute(plainText, cv)
	if err != nil {
		// The built-in template only reads fields, so execution cannot fail
		// for a non-nil CV.
		return ""
	}
	return out
}

// RenderFile renders cv with an operator-supplied text/template file. The
// template sees a *types.ParsedCV and the flatten, join and pair helpers.
func RenderFile(cv *types.ParsedCV, templatePath string) (string, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}
	if cv == nil {
		cv = types.NewParsedCV()
	}
	out, err := execute(tmpl, cv)
	if err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return out, nil
}

func parseTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}

	tmpl, err := template.New("cv").Funcs(funcs).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse template", Cause: err}
	}
	return tmpl, nil
}

func execute(tmpl *template.Template, cv *types.ParsedCV) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, cv); err != nil {
		return "", err
	}
	return tidy(b.String()), nil
}

// tidy trims every line and collapses runs of blank lines to one.
func tidy(text string) string {
	var out []string
	blank := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

// Flatten collapses all whitespace, including line breaks, to single spaces
// so a field cannot spill into the next line of the rendered document.
func Flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// pair joins a and b with sep, dropping sep when either side is empty.
func pair(a, sep, b string) string {
	a, b = Flatten(a), Flatten(b)
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + sep + b
}
