package transpile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// tsconfigCompilerOptions are the compiler options that affect lowering
var tsconfigCompilerOptions = []string{
	"target",
	"useDefineForClassFields",
	"importsNotUsedAsValues",
	"preserveValueImports",
	"verbatimModuleSyntax",
	"experimentalDecorators",
	"jsx",
	"jsxFactory",
	"jsxFragmentFactory",
	"jsxImportSource",
}

// ReadTsconfig reads a tsconfig.json, which may contain comments and
// trailing commas, and returns the raw JSON passed to the transformer. Only
// options affecting lowering are kept. A missing file yields "".
func ReadTsconfig(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: tsconfig path comes from the local configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	data = jsonc.ToJSON(data)

	var tsconfig struct {
		CompilerOptions map[string]json.RawMessage `json:"compilerOptions"`
	}
	if err := json.Unmarshal(data, &tsconfig); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}

	kept := make(map[string]json.RawMessage)
	for _, name := range tsconfigCompilerOptions {
		if v, ok := tsconfig.CompilerOptions[name]; ok {
			kept[name] = v
		}
	}
	raw, err := json.Marshal(map[string]any{"compilerOptions": kept})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
