package compile

import "github.com/patrickgunnar/galadrielcss/internal/registry"

// InheritanceChain builds the ordered list of context names used for
// resolver lookups: self first, then (for modules) an optional parent
// layout, then central. Central is always last.
func InheritanceChain(contextName string, parentLayout string) []string {
	chain := []string{contextName}
	if parentLayout != "" {
		chain = append(chain, parentLayout)
	}
	if contextName != registry.CentralContextName {
		chain = append(chain, registry.CentralContextName)
	}
	return chain
}
