package model

// ExtractedTags is the structured view of one signature's documentation.
type ExtractedTags struct {
	Description string `json:"description"`

	// Since is the joined @since value; HasSince reports whether the tag exists.
	Since    string `json:"since,omitempty"`
	HasSince bool   `json:"hasSince"`

	// Deprecated is the trimmed @deprecated message. IsDeprecated is set by the
	// presence of the tag, so an empty message still marks the callable.
	Deprecated   string `json:"deprecated,omitempty"`
	IsDeprecated bool   `json:"isDeprecated"`

	SeeAlsos    []string   `json:"seeAlsos,omitempty"`
	RawExamples []string   `json:"rawExamples,omitempty"`
	Params      []ParamTag `json:"params,omitempty"`
	Throws      []string   `json:"throws,omitempty"`
}

// ParamTag is a parsed @param tag.
type ParamTag struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MaterializedExample is an example body turned into a self-contained unit.
type MaterializedExample struct {
	Module string `json:"module"`
	Method string `json:"method"`

	// Source is the import header followed by the example body.
	Source string `json:"source"`

	// EntryPoints are the imported identifiers in first-appearance order.
	EntryPoints []string `json:"entryPoints,omitempty"`
}
