package model

import "sort"

// Project is the reflected API of the documented library. One Project is
// loaded per run and never modified afterwards.
type Project struct {
	// Name identifies the project in the baseline database.
	Name string `json:"name" yaml:"name"`

	// Modules are the namespaced method collections, e.g. NumberModule.
	Modules []*Module `json:"modules" yaml:"modules"`

	// Classes are the class-like entry points, e.g. Faker and SimpleFaker.
	Classes []*Class `json:"classes,omitempty" yaml:"classes,omitempty"`

	// Randomizer is the pluggable randomness source interface, if documented.
	Randomizer *Class `json:"randomizer,omitempty" yaml:"randomizer,omitempty"`

	// Utilities are free functions exported next to the modules.
	Utilities []*Method `json:"utilities,omitempty" yaml:"utilities,omitempty"`
}

// Module is a named collection of documented methods.
type Module struct {
	// Name is the reflected name, usually carrying a "Module" suffix.
	Name string `json:"name" yaml:"name"`

	// Comment documents the module itself.
	Comment *Comment `json:"comment,omitempty" yaml:"comment,omitempty"`

	// Methods are kept in load order.
	Methods []*Method `json:"methods" yaml:"methods"`
}

// Class is a documented class or interface. It shares the Module layout but is
// rendered as its own page category.
type Class struct {
	Name    string    `json:"name" yaml:"name"`
	Comment *Comment  `json:"comment,omitempty" yaml:"comment,omitempty"`
	Methods []*Method `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// Method binds a method name to its documented signature.
type Method struct {
	Name      string     `json:"name" yaml:"name"`
	Signature *Signature `json:"signature" yaml:"signature"`
}

// Signature is a single callable signature with its documentation.
type Signature struct {
	Name       string       `json:"name" yaml:"name"`
	Comment    *Comment     `json:"comment,omitempty" yaml:"comment,omitempty"`
	Parameters []*Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	ReturnType string       `json:"returnType,omitempty" yaml:"returnType,omitempty"`
	Sources    []Source     `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Parameter is one formal parameter of a signature.
type Parameter struct {
	Name     string   `json:"name" yaml:"name"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`
	Optional bool     `json:"optional,omitempty" yaml:"optional,omitempty"`
	Default  string   `json:"default,omitempty" yaml:"default,omitempty"`
	Comment  *Comment `json:"comment,omitempty" yaml:"comment,omitempty"`

	// Properties describe the fields of an options object parameter.
	Properties []*Parameter `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Source locates a declaration in the library's repository.
type Source struct {
	FileName string `json:"fileName" yaml:"fileName"`
	Line     int    `json:"line" yaml:"line"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
}

// MethodNames returns the module's method names in lexical order.
func (m *Module) MethodNames() []string {
	names := make([]string, 0, len(m.Methods))
	for _, method := range m.Methods {
		names = append(names, method.Name)
	}
	sort.Strings(names)
	return names
}

// Method returns the method with the given name, or nil.
func (m *Module) Method(name string) *Method {
	for _, method := range m.Methods {
		if method.Name == name {
			return method
		}
	}
	return nil
}

// CallableCount returns the number of module methods in the project.
func (p *Project) CallableCount() int {
	n := 0
	for _, m := range p.Modules {
		n += len(m.Methods)
	}
	return n
}
