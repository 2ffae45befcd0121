package tags

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nao1215/docproof/internal/model"
)

// Tag names, including the leading '@'.
const (
	TagExample    = "@example"
	TagSince      = "@since"
	TagDeprecated = "@deprecated"
	TagSee        = "@see"
	TagParam      = "@param"
	TagThrows     = "@throws"
	TagDefault    = "@default"
)

var (
	fenceOpen  = regexp.MustCompile("^```[A-Za-z]*\r?\n")
	fenceClose = regexp.MustCompile("\r?\n```$")
)

// ExtractTagContent returns the trimmed content of every tag named tag, in
// declaration order. The lookup is case-sensitive.
func ExtractTagContent(tag string, sig *model.Signature) []string {
	if sig == nil || sig.Comment == nil {
		return []string{}
	}
	out := []string{}
	for _, t := range sig.Comment.BlockTags {
		if t.Tag != tag {
			continue
		}
		out = append(out, strings.TrimSpace(t.Content.String()))
	}
	return out
}

// ExtractDescription returns the signature summary text.
func ExtractDescription(sig *model.Signature) string {
	if sig == nil || sig.Comment == nil {
		return ""
	}
	return strings.TrimSpace(sig.Comment.Summary.String())
}

// ExtractSince returns the @since value. Repeated tags are joined with ','.
func ExtractSince(sig *model.Signature) (string, bool) {
	values := ExtractTagContent(TagSince, sig)
	if len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(strings.Join(values, ",")), true
}

// ExtractDeprecated returns the trimmed @deprecated message. ok is true when
// the tag is present, even if the message is empty.
func ExtractDeprecated(sig *model.Signature) (string, bool) {
	values := ExtractTagContent(TagDeprecated, sig)
	if len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(strings.Join(values, "\n")), true
}

// ExtractSeeAlsos returns every @see entry.
func ExtractSeeAlsos(sig *model.Signature) []string {
	return ExtractTagContent(TagSee, sig)
}

// ExtractThrows returns every @throws entry.
func ExtractThrows(sig *model.Signature) []string {
	return ExtractTagContent(TagThrows, sig)
}

// ExtractRawExamples returns every @example body with its code fence removed.
func ExtractRawExamples(sig *model.Signature) []string {
	examples := ExtractTagContent(TagExample, sig)
	for i, ex := range examples {
		ex = fenceOpen.ReplaceAllString(ex, "")
		examples[i] = fenceClose.ReplaceAllString(ex, "")
	}
	return examples
}

// ExtractJoinedRawExamples joins every example body with a blank line. It
// returns "" when the signature has no examples.
func ExtractJoinedRawExamples(sig *model.Signature) string {
	return strings.Join(ExtractRawExamples(sig), "\n\n")
}

// ExtractParams parses the @param tags. The name comes from Tag.Name when the
// dump provides it, otherwise from the first word of the content.
func ExtractParams(sig *model.Signature) []model.ParamTag {
	if sig == nil || sig.Comment == nil {
		return []model.ParamTag{}
	}
	out := []model.ParamTag{}
	for _, t := range sig.Comment.BlockTags {
		if t.Tag != TagParam {
			continue
		}
		content := strings.TrimSpace(t.Content.String())
		name := t.Name
		if name == "" {
			name, content, _ = strings.Cut(content, " ")
		}
		content = strings.TrimSpace(content)
		content = strings.TrimSpace(strings.TrimPrefix(content, "- "))
		out = append(out, model.ParamTag{Name: name, Description: content})
	}
	return out
}

// ExtractDefault returns the @default value of a parameter comment.
func ExtractDefault(comment *model.Comment) (string, bool) {
	if comment == nil {
		return "", false
	}
	for _, t := range comment.BlockTags {
		if t.Tag == TagDefault {
			return strings.TrimSpace(t.Content.String()), true
		}
	}
	return "", false
}

// ExtractModuleName strips the "Module" suffix from a reflected module name.
func ExtractModuleName(name string) string {
	return strings.TrimSuffix(name, "Module")
}

// ExtractModuleFieldName returns the property name the module is exposed
// under on the entry point, e.g. NumberModule -> number.
func ExtractModuleFieldName(module *model.Module) string {
	if module == nil {
		return ""
	}
	return LowerFirst(ExtractModuleName(module.Name))
}

// LowerFirst lower-cases the first rune of s.
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// Extract collects every tag of sig into one value.
func Extract(sig *model.Signature) model.ExtractedTags {
	since, hasSince := ExtractSince(sig)
	deprecated, isDeprecated := ExtractDeprecated(sig)
	return model.ExtractedTags{
		Description:  ExtractDescription(sig),
		Since:        since,
		HasSince:     hasSince,
		Deprecated:   deprecated,
		IsDeprecated: isDeprecated,
		SeeAlsos:     ExtractSeeAlsos(sig),
		RawExamples:  ExtractRawExamples(sig),
		Params:       ExtractParams(sig),
		Throws:       ExtractThrows(sig),
	}
}
