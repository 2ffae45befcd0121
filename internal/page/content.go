package page

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/docproof/internal/model"
	"github.com/nao1215/docproof/internal/render"
)

var seeCall = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\.([A-Za-z_$][\w$]*)\.([A-Za-z_$][\w$]*)\(`)

// pageMarkdown builds the markdown source of a page body.
func (p *Processor) pageMarkdown(title, description string, methods []*model.MethodInfo) (string, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1(title)
	md.PlainText("")
	if description != "" {
		md.PlainText(description)
		md.PlainText("")
	}

	for _, m := range methods {
		p.methodMarkdown(md, m)
	}

	if err := md.Build(); err != nil {
		return "", fmt.Errorf("failed to build page %s: %w", title, err)
	}
	return buf.String(), nil
}

func (p *Processor) methodMarkdown(md *markdown.Markdown, m *model.MethodInfo) {
	md.H2(m.Name)
	md.PlainText("")
	md.PlainText(strings.TrimSpace(m.Description))
	md.PlainText("")

	if m.Since != "" {
		md.PlainTextf("Available since v%s", m.Since)
		md.PlainText("")
	}
	if m.IsDeprecated {
		md.Cautionf("This method is deprecated. %s", render.StripTags(m.Deprecated))
		md.PlainText("")
	}

	if len(m.Parameters) > 0 {
		md.H3("Parameters")
		md.PlainText("")
		rows := make([][]string, 0, len(m.Parameters))
		for _, param := range m.Parameters {
			name := param.Name
			if param.Optional {
				name += "?"
			}
			def := param.Default
			if def == "" {
				def = "-"
			}
			rows = append(rows, []string{name, tableCell(param.Type), tableCell(def), tableCell(render.StripTags(param.Description))})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Name", "Type", "Default", "Description"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if m.ReturnType != "" {
		md.PlainTextf("**Returns:** `%s`", m.ReturnType)
		md.PlainText("")
	}

	md.CodeBlocks(markdown.SyntaxHighlight(p.codeLanguage), m.Signature)
	md.PlainText("")
	if m.Examples != "" {
		md.CodeBlocks(markdown.SyntaxHighlight(p.codeLanguage), m.Examples)
		md.PlainText("")
	}

	if len(m.SeeAlsos) > 0 {
		md.H3("See Also")
		md.PlainText("")
		items := make([]string, len(m.SeeAlsos))
		for i, see := range m.SeeAlsos {
			items[i] = p.seeAlsoLink(see)
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	if len(m.Throws) > 0 {
		md.H3("Throws")
		md.PlainText("")
		md.BulletList(m.Throws...)
		md.PlainText("")
	}

	if m.SourcePath != "" && p.sourceBaseURL != "" {
		md.PlainTextf("[Source](%s%s)", p.sourceBaseURL, m.SourcePath)
		md.PlainText("")
	}
}

// seeAlsoLink turns "faker.number.int()" into a link to its anchor. Other
// entries are returned unchanged.
func (p *Processor) seeAlsoLink(see string) string {
	m := seeCall.FindStringSubmatch(see)
	if m == nil || m[1]+"." != p.callPrefix {
		return see
	}
	return fmt.Sprintf("[%s](%s%s.html#%s)", see, p.apiRoot, m[2], strings.ToLower(m[3]))
}

func tableCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
