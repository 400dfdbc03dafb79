package scope

import (
	"testing"

	"github.com/cwbudde/latc/internal/types"
	"github.com/stretchr/testify/require"
)

func TestStack_GlobalDeclare(t *testing.T) {
	s := New()
	sym, ok := s.Declare("x", types.IntegerType, 1)
	require.True(t, ok)
	require.Equal(t, 0, sym.Lo)
	require.Equal(t, 0, sym.Hi)
	require.Equal(t, 1, s.GlobalCount)
}

func TestStack_RedeclareInSameScopeFails(t *testing.T) {
	s := New()
	_, ok := s.Declare("x", types.IntegerType, 1)
	require.True(t, ok)
	_, ok = s.Declare("x", types.FloatType, 1)
	require.False(t, ok)
}

func TestStack_ShadowingAllowedInNestedScope(t *testing.T) {
	s := New()
	s.Declare("x", types.IntegerType, 1)
	s.Start("block")
	sym, ok := s.Declare("x", types.FloatType, 1)
	require.True(t, ok)
	require.Equal(t, types.FloatType, sym.Type)
}

func TestStack_LookupWalksOuterward(t *testing.T) {
	s := New()
	s.Declare("g", types.IntegerType, 1)
	s.Start("block")
	sym, inFn, owner, ok := s.Lookup("g")
	require.True(t, ok)
	require.False(t, inFn)
	require.Equal(t, "global", owner)
	require.Equal(t, types.IntegerType, sym.Type)
}

func TestStack_LookupMissingFails(t *testing.T) {
	s := New()
	_, _, _, ok := s.Lookup("nope")
	require.False(t, ok)
}

func TestStack_EndEmitsBalancedPop(t *testing.T) {
	s := New()
	s.StartFunction("main")
	s.Declare("a", types.IntegerType, 1)
	s.Declare("b", types.NewVector(types.Integer, 3), 3)
	require.Equal(t, 4, s.FrameCount)
	popFrag := s.End()
	require.Equal(t, "POP 4\n", popFrag)
	require.Equal(t, 0, s.FrameCount)
}

func TestStack_EndEmptyScopeEmitsNothing(t *testing.T) {
	s := New()
	s.Start("block")
	require.Equal(t, "", s.End())
}

func TestStack_FunctionVsGlobalCounters(t *testing.T) {
	s := New()
	s.Declare("g", types.IntegerType, 1)
	require.Equal(t, 1, s.GlobalCount)
	require.Equal(t, 0, s.FrameCount)

	s.StartFunction("f")
	s.Declare("p", types.IntegerType, 1)
	require.Equal(t, 1, s.FrameCount)
	require.Equal(t, 1, s.GlobalCount)
	s.End()
	require.Equal(t, 0, s.FrameCount)
	require.Equal(t, 1, s.GlobalCount)
}

func TestStack_DepthTracksNesting(t *testing.T) {
	s := New()
	require.Equal(t, 0, s.Depth())
	s.Start("a")
	require.Equal(t, 1, s.Depth())
	s.Start("b")
	require.Equal(t, 2, s.Depth())
	s.End()
	require.Equal(t, 1, s.Depth())
}
