package signature

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/docproof/internal/model"
	"github.com/nao1215/docproof/internal/render"
	"github.com/nao1215/docproof/internal/tags"
)

// MissingDescription marks a parameter that has no documentation.
const MissingDescription = "Missing"

// DefaultCallPrefix is prepended to display signatures.
const DefaultCallPrefix = "faker."

// Analyzer builds MethodInfo values. It is safe for concurrent use if its
// renderer is.
type Analyzer struct {
	renderer   render.Renderer
	callPrefix string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCallPrefix sets the prefix of display signatures, e.g. "faker.".
func WithCallPrefix(prefix string) Option {
	return func(a *Analyzer) {
		a.callPrefix = prefix
	}
}

// NewAnalyzer returns an Analyzer rendering descriptions with renderer.
func NewAnalyzer(renderer render.Renderer, opts ...Option) *Analyzer {
	a := &Analyzer{renderer: renderer, callPrefix: DefaultCallPrefix}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeSignature documents the callable name of parent. parent is the
// module field name and may be empty for free functions.
func (a *Analyzer) AnalyzeSignature(ctx context.Context, sig *model.Signature, parent, name string) (*model.MethodInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sig == nil {
		sig = &model.Signature{Name: name}
	}

	extracted := tags.Extract(sig)

	params, err := a.analyzeParameters(sig, extracted.Params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", qualified(parent, name), err)
	}

	description, err := a.renderer.Render(extracted.Description)
	if err != nil {
		return nil, fmt.Errorf("%s: description: %w", qualified(parent, name), err)
	}

	info := &model.MethodInfo{
		Name:         name,
		Title:        name,
		Description:  description,
		Signature:    a.displaySignature(sig, parent, name),
		Parameters:   params,
		ReturnType:   sig.ReturnType,
		Since:        extracted.Since,
		IsDeprecated: extracted.IsDeprecated,
		SeeAlsos:     extracted.SeeAlsos,
		Examples:     strings.Join(extracted.RawExamples, "\n\n"),
		Throws:       extracted.Throws,
		SourcePath:   tags.ExtractSourcePath(sig),
	}

	if extracted.IsDeprecated {
		info.Deprecated, err = a.renderer.Render(extracted.Deprecated)
		if err != nil {
			return nil, fmt.Errorf("%s: deprecation: %w", qualified(parent, name), err)
		}
	}
	return info, nil
}

type flatParameter struct {
	name  string
	param *model.Parameter
}

// flatten lists parameters with options object properties as parent.child.
func flatten(params []*model.Parameter) []flatParameter {
	var out []flatParameter
	var walk func(prefix string, ps []*model.Parameter)
	walk = func(prefix string, ps []*model.Parameter) {
		for _, p := range ps {
			if p == nil {
				continue
			}
			name := p.Name
			if prefix != "" {
				name = prefix + "." + p.Name
			}
			out = append(out, flatParameter{name: name, param: p})
			walk(name, p.Properties)
		}
	}
	walk("", params)
	return out
}

func (a *Analyzer) analyzeParameters(sig *model.Signature, paramTags []model.ParamTag) ([]*model.ParameterInfo, error) {
	byName := make(map[string]string, len(paramTags))
	for _, pt := range paramTags {
		byName[pt.Name] = pt.Description
	}

	flat := flatten(sig.Parameters)
	infos := make([]*model.ParameterInfo, 0, len(flat))
	for _, fp := range flat {
		text, ok := byName[fp.name]
		if !ok {
			text = parameterSummary(fp.param)
		}

		description, err := a.renderer.Render(text)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", fp.name, err)
		}

		def := fp.param.Default
		if def == "" {
			def, _ = tags.ExtractDefault(fp.param.Comment)
		}

		infos = append(infos, &model.ParameterInfo{
			Name:        fp.name,
			Type:        fp.param.Type,
			Optional:    fp.param.Optional,
			Default:     def,
			Description: description,
		})
	}
	return infos, nil
}

func parameterSummary(p *model.Parameter) string {
	if p.Comment != nil {
		if s := strings.TrimSpace(p.Comment.Summary.String()); s != "" {
			return s
		}
	}
	return MissingDescription
}

func (a *Analyzer) displaySignature(sig *model.Signature, parent, name string) string {
	var sb strings.Builder
	if parent != "" {
		sb.WriteString(a.callPrefix)
		sb.WriteString(parent)
		sb.WriteByte('.')
	}
	sb.WriteString(name)
	sb.WriteByte('(')
	written := 0
	for _, p := range sig.Parameters {
		if p == nil {
			continue
		}
		if written > 0 {
			sb.WriteString(", ")
		}
		written++
		sb.WriteString(p.Name)
		if p.Optional {
			sb.WriteByte('?')
		}
		if p.Type != "" {
			sb.WriteString(": ")
			sb.WriteString(p.Type)
		}
	}
	sb.WriteByte(')')
	if sig.ReturnType != "" {
		sb.WriteString(": ")
		sb.WriteString(sig.ReturnType)
	}
	return sb.String()
}

func qualified(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// IsMissing reports whether a rendered description is the missing sentinel.
func IsMissing(renderedDescription string) bool {
	return render.StripTags(renderedDescription) == MissingDescription
}
