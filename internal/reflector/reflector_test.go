package reflector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Value int
}

func TestTypeNameOf(t *testing.T) {
	require.Equal(t, "github.com/codewandler/bhvr-go/internal/reflector.sample", TypeNameOf(sample{}))

	// pointer unwraps to element type
	require.Equal(t, "github.com/codewandler/bhvr-go/internal/reflector.sample", TypeNameOf(&sample{}))

	// builtins have no package path
	require.Equal(t, "string", TypeNameOf("hello"))
}

func TestTypeNameFor(t *testing.T) {
	require.Equal(t, "github.com/codewandler/bhvr-go/internal/reflector.sample", TypeNameFor[sample]())

	// cached second lookup returns the same value
	require.Equal(t, TypeNameFor[sample](), TypeNameFor[sample]())
}
