package tags

import (
	"fmt"
	"regexp"

	"github.com/nao1215/docproof/internal/model"
)

var blobURL = regexp.MustCompile(`^(.*/blob/[0-9a-f]+/)(.*)$`)

// ExtractSourcePath returns "file#Lline" for the first source of sig.
func ExtractSourcePath(sig *model.Signature) string {
	if sig == nil || len(sig.Sources) == 0 {
		return ""
	}
	src := sig.Sources[0]
	if src.Line <= 0 {
		return src.FileName
	}
	return fmt.Sprintf("%s#L%d", src.FileName, src.Line)
}

// ExtractSourceBaseURL returns the repository URL prefix ending in
// /blob/<commit>/ of the first source of sig, or "" when it has none.
func ExtractSourceBaseURL(sig *model.Signature) string {
	if sig == nil || len(sig.Sources) == 0 {
		return ""
	}
	m := blobURL.FindStringSubmatch(sig.Sources[0].URL)
	if m == nil {
		return ""
	}
	return m[1]
}

// ProjectSourceBaseURL returns the first source base URL found in the project.
func ProjectSourceBaseURL(p *model.Project) string {
	if p == nil {
		return ""
	}
	for _, m := range p.Modules {
		for _, method := range m.Methods {
			if u := ExtractSourceBaseURL(method.Signature); u != "" {
				return u
			}
		}
	}
	return ""
}
