package emit

import (
	"fmt"
	"strings"
	"text/template"
	"unicode"
)

const bannerText = `// Code generated by isagen from {{comment .}}. DO NOT EDIT.
`

const executeText = `    unsigned execute({{.Target.MachineBase}} *_mach, {{.Target.SlotType}} **slots)
    {
        {{.Target.Machine}} *mach = static_cast<{{.Target.Machine}}*>(_mach);
{{range .Prologue}}        {{.}}
{{end}}{{with .Body}}
{{.}}{{end}}{{with .Epilogue}}
{{range .}}        {{.}}
{{end}}{{end}}
        return {{.SlotCount}};
    }
`

const slotListText = `    std::vector<{{.Target.SlotType}}*> getSlots()
    {
{{if .Slots}}        return {
{{range .Slots}}            {{.}},
{{end}}        };
{{else}}        return {};
{{end}}    }
`

const classText = `class {{.ClassName}} : public {{.Target.BaseClass}}
{
public:
{{.ExecuteRoutine}}
{{.SlotList}}
    unsigned getNumberOfSlots()
    {
        return {{.SlotCount}};
    }

    std::string getName()
    {
        return {{quote .PrintName}};
    }

    std::string toString()
    {
        return {{quote .SymbolicForm}};
    }

    std::string toString({{.Target.SlotType}} **slots)
    {
        return {{.ResolvedForm}};
    }
};
`

var templates = template.Must(
	template.New("templates").Funcs(template.FuncMap{
		"quote":   quote,
		"comment": commentText,
	}).Parse(""))

var (
	bannerTemplate   = template.Must(templates.New("banner").Parse(bannerText))
	executeTemplate  = template.Must(templates.New("execute").Parse(executeText))
	slotListTemplate = template.Must(templates.New("slots").Parse(slotListText))
	classTemplate    = template.Must(templates.New("class").Parse(classText))
)

type executeView struct {
	Target    Target
	Prologue  []string
	Body      string
	Epilogue  []string
	SlotCount int
}

type slotListView struct {
	Target Target
	Slots  []string
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", t.Name(), err)
	}
	return b.String(), nil
}

// quote renders s as a C string literal. Control characters use three digit
// octal escapes, which never swallow a following character.
func quote(s string) string {
	var b strings.Builder

	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			b.WriteString(`\"`)
		case c == '\\':
			b.WriteString(`\\`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\r':
			b.WriteString(`\r`)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&b, `\%03o`, c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')

	return b.String()
}

// commentText makes s safe inside a line comment. Control characters,
// line breaks included, are written as \x or \u escapes.
func commentText(s string) string {
	var b strings.Builder

	for _, r := range s {
		switch {
		case r == '\u2028' || r == '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		case unicode.IsControl(r):
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
