package codegen

import (
	"bytes"
	"embed"
	"sync"
	"text/template"

	"github.com/cockroachdb/errors"

	"github.com/roach88/idlcpp/internal/naming"
)

const (
	tmplBanner      = "banner"
	tmplHeader      = "header"
	tmplAccount     = "account_h.tmpl"
	tmplDefinedType = "defined_type_h.tmpl"
	tmplInstruction = "instruction_h.tmpl"
	tmplErrorsH     = "errors_h.tmpl"
	tmplErrorsCpp   = "errors_cpp.tmpl"
	tmplPrograms    = "programs_h.tmpl"
)

const templatePattern = "templates/*.tmpl"

//go:embed templates/*.tmpl
var templatesFS embed.FS

var (
	fileTmpl     *template.Template
	tmplInitOnce sync.Once
	tmplInitErr  error
)

var funcMap = template.FuncMap{
	"pascal":   naming.Pascal,
	"camel":    naming.Camel,
	"snake":    naming.Snake,
	"kebab":    naming.Kebab,
	"title":    naming.Title,
	"constant": naming.Constant,
	"docblock": docblock,
	"indent":   indent,
}

// requiredTemplates returns every template name the renderer executes,
// including the per-flavor module and scaffold templates.
func requiredTemplates(flavorTemplates ...string) []string {
	names := []string{
		tmplBanner,
		tmplHeader,
		tmplAccount,
		tmplDefinedType,
		tmplInstruction,
		tmplErrorsH,
		tmplErrorsCpp,
		tmplPrograms,
	}
	return append(names, flavorTemplates...)
}

func validateTemplates(names []string) error {
	for _, name := range names {
		if fileTmpl.Lookup(name) == nil {
			return errors.Newf("required template %q not found", name)
		}
	}
	return nil
}

// ensureTemplates parses the embedded templates exactly once.
func ensureTemplates() error {
	tmplInitOnce.Do(func() {
		var t *template.Template
		t, tmplInitErr = template.New("idlcpp").Funcs(funcMap).ParseFS(templatesFS, templatePattern)
		if tmplInitErr != nil {
			tmplInitErr = errors.Wrap(tmplInitErr, "parse templates")
			return
		}
		fileTmpl = t
		tmplInitErr = validateTemplates(requiredTemplates())
	})
	return tmplInitErr
}

// render executes the named template with data.
func render(name string, data any) (string, error) {
	if err := ensureTemplates(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := fileTmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "render %s", name)
	}
	return buf.String(), nil
}

// indent prefixes every non-empty line of s with n tabs.
func indent(n int, s string) string {
	if s == "" {
		return s
	}
	var b bytes.Buffer
	prefix := bytes.Repeat([]byte("\t"), n)
	for i, line := range bytes.Split([]byte(s), []byte("\n")) {
		if i > 0 {
			b.WriteByte('\n')
		}
		if len(line) > 0 {
			b.Write(prefix)
		}
		b.Write(line)
	}
	return b.String()
}
