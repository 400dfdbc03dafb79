package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestType_Equal(t *testing.T) {
	require.True(t, IntegerType.Equal(NewPrimitive(Integer)))
	require.False(t, IntegerType.Equal(FloatType))
	require.True(t, NewPointer(Integer).Equal(NewPointer(Integer)))
	require.False(t, NewPointer(Integer).Equal(NewPointer(Float)))
	require.True(t, NewVector(Integer, 3).Equal(NewVector(Integer, 3)))
	require.False(t, NewVector(Integer, 3).Equal(NewVector(Integer, 4)))
	require.False(t, IntegerType.Equal(NewVector(Integer, 1)))
}

func TestType_NoneNeverUnifies(t *testing.T) {
	require.False(t, None.Equal(None))
	require.False(t, None.Equal(IntegerType))
	require.True(t, None.IsNone())
}

func TestType_SizeInCells(t *testing.T) {
	require.Equal(t, 1, IntegerType.SizeInCells())
	require.Equal(t, 1, NewPointer(Integer).SizeInCells())
	require.Equal(t, 5, NewVector(Float, 5).SizeInCells())
}

func TestType_DecaysTo(t *testing.T) {
	require.True(t, NewVector(Integer, 3).DecaysTo(NewPointer(Integer)))
	require.False(t, NewVector(Float, 3).DecaysTo(NewPointer(Integer)))
	require.False(t, IntegerType.DecaysTo(NewPointer(Integer)))
}

func TestType_String(t *testing.T) {
	require.Equal(t, "integer", IntegerType.String())
	require.Equal(t, "&float", NewPointer(Float).String())
	require.Equal(t, "vec<filum>[4]", NewVector(Filum, 4).String())
	require.Equal(t, "None", None.String())
}
