package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Owner Name Resolution Tests
// ============================================================================

func TestResolveOwnerName_DisplayNameWins(t *testing.T) {
	p := Product{OwnerUID: "uid-1234", OwnerName: "Alice", OwnerHandle: "alice88"}
	assert.Equal(t, "Alice", ResolveOwnerName(p))
}

func TestResolveOwnerName_HandleFallback(t *testing.T) {
	p := Product{OwnerUID: "uid-1234", OwnerHandle: "alice88"}
	assert.Equal(t, "alice88", ResolveOwnerName(p))
}

func TestResolveOwnerName_SynthesizedFromUID(t *testing.T) {
	p := Product{OwnerUID: "0f8fad5b-d9cb-469f-a165-70867728950e"}
	assert.Equal(t, "seller-0f8fad5b", ResolveOwnerName(p))
}

func TestResolveOwnerName_ShortUID(t *testing.T) {
	p := Product{OwnerUID: "u1"}
	assert.Equal(t, "seller-u1", ResolveOwnerName(p))
}

func TestResolveOwnerName_Empty(t *testing.T) {
	assert.Equal(t, "", ResolveOwnerName(Product{}))
}
