// Package sfc models a parsed single-file component: the Descriptor and its
// template, script, style and custom Regions.
package sfc

import "bennypowers.dev/sfcgen/internal/position"

// Block types with special meaning. Any other top-level element is a custom block.
const (
	BlockTemplate = "template"
	BlockScript   = "script"
	BlockStyle    = "style"
)

// Attr is one attribute of a region's opening tag. Boolean attributes have
// HasValue false.
type Attr struct {
	Name     string `yaml:"name"`
	Value    string `yaml:"value,omitempty"`
	HasValue bool   `yaml:"hasValue"`
}

// Loc is the span of a region's content within the document
type Loc struct {
	Start position.Position `yaml:"start"`
	End   position.Position `yaml:"end"`
}

// Region is one typed slice of a component document
type Region struct {
	Type    string `yaml:"type"`
	Content string `yaml:"content"`
	Attrs   []Attr `yaml:"attrs,omitempty"`
	Loc     Loc    `yaml:"loc"`

	// Src is the external reference path. Regions with a src are imported,
	// never inlined.
	Src  string `yaml:"src,omitempty"`
	Lang string `yaml:"lang,omitempty"`

	// Setup marks <script setup>
	Setup bool `yaml:"setup,omitempty"`
	// Scoped marks <style scoped>
	Scoped bool `yaml:"scoped,omitempty"`
	// Module is the exposed CSS-module name; "$style" for a bare `module`
	// attribute, empty when the style is not a CSS module.
	Module string `yaml:"module,omitempty"`
}

// Attr returns the attribute with the given name
func (r *Region) Attr(name string) (Attr, bool) {
	for _, a := range r.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}

// IsModule reports whether the region is a CSS module
func (r *Region) IsModule() bool {
	return r != nil && r.Module != ""
}

// Descriptor is the parsed form of one component document
type Descriptor struct {
	ID           string    `yaml:"id"`
	Filename     string    `yaml:"filename"`
	Source       string    `yaml:"-"`
	Template     *Region   `yaml:"template,omitempty"`
	Script       *Region   `yaml:"script,omitempty"`
	ScriptSetup  *Region   `yaml:"scriptSetup,omitempty"`
	Styles       []*Region `yaml:"styles,omitempty"`
	CustomBlocks []*Region `yaml:"customBlocks,omitempty"`
}

// HasScoped reports whether any style region is scoped
func (d *Descriptor) HasScoped() bool {
	for _, s := range d.Styles {
		if s.Scoped {
			return true
		}
	}
	return false
}

// ScriptLang is the declared language of the script, falling back to "js"
func (d *Descriptor) ScriptLang() string {
	if d.Script != nil && d.Script.Lang != "" {
		return d.Script.Lang
	}
	if d.ScriptSetup != nil && d.ScriptSetup.Lang != "" {
		return d.ScriptSetup.Lang
	}
	return "js"
}

// ScopeID is the attribute name used for scoped styles, e.g. "data-v-7ba5bd90"
func (d *Descriptor) ScopeID() string {
	return "data-v-" + d.ID
}
