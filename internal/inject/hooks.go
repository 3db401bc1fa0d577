package inject

import "fmt"

// HookKind selects the statements a Hook contributes
type HookKind int

const (
	// HookHotReloadRecord registers the component with the hot-reload runtime
	HookHotReloadRecord HookKind = iota + 1
	// HookSSRRegister wraps setup to record the module in the server render context
	HookSSRRegister
	// HookCustomBlock invokes an imported custom block with the component
	HookCustomBlock
)

// Hook is a statement generator run against the merged component binding
type Hook struct {
	Kind HookKind

	// ContextAccessor is the local name of the imported server-context
	// accessor (HookSSRRegister)
	ContextAccessor string
	// ModuleID is added to the context's module set (HookSSRRegister)
	ModuleID string
	// Block is the identifier a custom block was imported as (HookCustomBlock)
	Block string
}

// HotReloadRecord creates a hot-reload record hook
func HotReloadRecord() Hook {
	return Hook{Kind: HookHotReloadRecord}
}

// SSRRegister creates a server-context registration hook
func SSRRegister(contextAccessor, moduleID string) Hook {
	return Hook{Kind: HookSSRRegister, ContextAccessor: contextAccessor, ModuleID: moduleID}
}

// CustomBlock creates a custom block invocation hook
func CustomBlock(ident string) Hook {
	return Hook{Kind: HookCustomBlock, Block: ident}
}

// Statements returns the hook's statements for the given binding name. None
// of them contain line breaks.
func (h Hook) Statements(binding string) []string {
	switch h.Kind {
	case HookHotReloadRecord:
		return []string{fmt.Sprintf(
			"typeof __VUE_HMR_RUNTIME__ !== 'undefined' && __VUE_HMR_RUNTIME__.createRecord(%s.__hmrId, %s)",
			binding, binding)}
	case HookSSRRegister:
		return []string{
			fmt.Sprintf("const __sfc_setup = %s.setup", binding),
			fmt.Sprintf(
				"%s.setup = (props, ctx) => { const ssrContext = %s(); (ssrContext.modules || (ssrContext.modules = new Set())).add(%s); return __sfc_setup ? __sfc_setup(props, ctx) : undefined }",
				binding, h.ContextAccessor, Quote(h.ModuleID)),
		}
	case HookCustomBlock:
		return []string{fmt.Sprintf("if (typeof %s === 'function') %s(%s)", h.Block, h.Block, binding)}
	default:
		return nil
	}
}
