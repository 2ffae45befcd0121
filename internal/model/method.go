package model

// MethodInfo is the render-ready documentation of one callable.
// Description fields hold rendered HTML.
type MethodInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`

	Description string `json:"description"`

	// Signature is the display form, e.g. faker.number.int(max?: number): number.
	Signature  string           `json:"signature"`
	Parameters []*ParameterInfo `json:"parameters,omitempty"`
	ReturnType string           `json:"returnType,omitempty"`

	Since        string `json:"since,omitempty"`
	Deprecated   string `json:"deprecated,omitempty"`
	IsDeprecated bool   `json:"isDeprecated,omitempty"`

	SeeAlsos []string `json:"seeAlsos,omitempty"`

	// Examples is the joined example code, unrendered.
	Examples   string   `json:"examples,omitempty"`
	Throws     []string `json:"throws,omitempty"`
	SourcePath string   `json:"sourcePath,omitempty"`
}

// ParameterInfo is the render-ready documentation of one parameter.
type ParameterInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description"`
}
