package sfc

import "bennypowers.dev/sfcgen/internal/collections"

// Names reported by ChangedBlocks
const (
	ChangedTemplate     = "template"
	ChangedScript       = "script"
	ChangedScriptSetup  = "scriptSetup"
	ChangedStyles       = "styles"
	ChangedCustomBlocks = "customBlocks"
)

// IsEqualBlock reports whether two regions would compile identically. Regions
// sharing the same external src are equal regardless of content; otherwise
// content and attributes must match exactly.
func IsEqualBlock(a, b *Region) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Src != "" && b.Src != "" && a.Src == b.Src {
		return true
	}
	if a.Content != b.Content {
		return false
	}
	if len(a.Attrs) != len(b.Attrs) {
		return false
	}
	for _, attr := range a.Attrs {
		other, ok := b.Attr(attr.Name)
		if !ok || other != attr {
			return false
		}
	}
	return true
}

func equalBlockLists(a, b []*Region) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !IsEqualBlock(a[i], b[i]) {
			return false
		}
	}
	return true
}

// ChangedBlocks returns the names of the region groups that differ between
// prev and next.
func ChangedBlocks(prev, next *Descriptor) collections.Set[string] {
	changed := collections.NewSet[string]()
	if !IsEqualBlock(prev.Template, next.Template) {
		changed.Add(ChangedTemplate)
	}
	if !IsEqualBlock(prev.Script, next.Script) {
		changed.Add(ChangedScript)
	}
	if !IsEqualBlock(prev.ScriptSetup, next.ScriptSetup) {
		changed.Add(ChangedScriptSetup)
	}
	if !equalBlockLists(prev.Styles, next.Styles) {
		changed.Add(ChangedStyles)
	}
	if !equalBlockLists(prev.CustomBlocks, next.CustomBlocks) {
		changed.Add(ChangedCustomBlocks)
	}
	return changed
}

// IsOnlyTemplateChanged reports whether everything but the template is
// unchanged between prev and next, so a render-only hot update suffices.
func IsOnlyTemplateChanged(prev, next *Descriptor) bool {
	return !ChangedBlocks(prev, next).HasAny(ChangedScript, ChangedScriptSetup, ChangedStyles, ChangedCustomBlocks)
}
