package domain

import (
	"fmt"
)

// OwnerNameResolver derives a display label for a product's owner.
type OwnerNameResolver interface {
	ResolveOwnerName(p Product) string
}

// ownerFallbackChain tries each candidate in order and returns the first
// non-empty label.
type ownerFallbackChain []func(Product) string

func (c ownerFallbackChain) ResolveOwnerName(p Product) string {
	for _, f := range c {
		if name := f(p); name != "" {
			return name
		}
	}
	return ""
}

// DefaultOwnerResolver resolves display name, then handle, then a label
// synthesized from the owner id.
var DefaultOwnerResolver OwnerNameResolver = ownerFallbackChain{
	func(p Product) string { return p.OwnerName },
	func(p Product) string { return p.OwnerHandle },
	func(p Product) string {
		if p.OwnerUID == "" {
			return ""
		}
		uid := p.OwnerUID
		if len(uid) > 8 {
			uid = uid[:8]
		}
		return fmt.Sprintf("seller-%s", uid)
	},
}

// ResolveOwnerName applies the default fallback chain.
func ResolveOwnerName(p Product) string {
	return DefaultOwnerResolver.ResolveOwnerName(p)
}
