// File: lixenwraith/bind/resolver_test.go
package bind

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietResolver(p Provider, opts ...Option) *Resolver {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewResolver(p, opts...)
}

func retryTree() *Tree {
	return NewTree(map[string]any{
		"Retry": map[string]any{
			"MaxAttempts": "5",
			"Timeout":     "30s",
		},
		"Feature": map[string]any{
			"Tags": []any{"a", "b", "c"},
		},
	})
}

func TestResolveScalars(t *testing.T) {
	r := quietResolver(retryTree())

	t.Run("Int", func(t *testing.T) {
		v, err := As[int](r, "Retry:MaxAttempts")
		require.NoError(t, err)
		assert.Equal(t, 5, v)
	})

	t.Run("Duration", func(t *testing.T) {
		v, err := As[time.Duration](r, "Retry:Timeout")
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, v)
	})

	t.Run("String", func(t *testing.T) {
		v, err := As[string](r, "Retry:Timeout")
		require.NoError(t, err)
		assert.Equal(t, "30s", v)
	})

	t.Run("MissingKeyYieldsZero", func(t *testing.T) {
		v, err := As[int](r, "Retry:Nope")
		require.NoError(t, err)
		assert.Equal(t, 0, v)
	})

	t.Run("UnparseableYieldsZero", func(t *testing.T) {
		v, err := As[int](r, "Retry:Timeout") // "30s" is not an int
		require.NoError(t, err)
		assert.Equal(t, 0, v)
	})
}

func TestResolveNullable(t *testing.T) {
	r := quietResolver(retryTree())

	t.Run("AbsentIsNil", func(t *testing.T) {
		v, err := As[*int](r, "Retry:Nope")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("PresentIsPointer", func(t *testing.T) {
		v, err := As[*int](r, "Retry:MaxAttempts")
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, 5, *v)
	})

	t.Run("PresentMatchesScalarResolution", func(t *testing.T) {
		direct, err := As[time.Duration](r, "Retry:Timeout")
		require.NoError(t, err)
		ptr, err := As[*time.Duration](r, "Retry:Timeout")
		require.NoError(t, err)
		require.NotNil(t, ptr)
		assert.Equal(t, direct, *ptr)
	})

	t.Run("UnparseableIsNilInLenientMode", func(t *testing.T) {
		v, err := As[*int](r, "Retry:Timeout")
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestResolveCollections(t *testing.T) {
	tree := NewTree(map[string]any{
		"Ports": []any{"1", "2", "3"},
		"Ids":   []any{"6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
	})
	tree.Set("Feature:Tags:0", "a")
	tree.Set("Feature:Tags:1", "b")
	tree.Set("Feature:Tags:2", "c")
	r := quietResolver(tree)

	t.Run("ArrayOfInt", func(t *testing.T) {
		v, err := As[[]int](r, "Ports")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, v)
		assert.Equal(t, 3, cap(v))
	})

	t.Run("StringSliceInProviderOrder", func(t *testing.T) {
		v, err := As[[]string](r, "Feature:Tags")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, v)
	})

	t.Run("ListShape", func(t *testing.T) {
		v, err := r.Resolve("Feature:Tags", ListOf[string]())
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, v)
	})

	t.Run("FixedSizeArray", func(t *testing.T) {
		v, err := As[[2]int](r, "Ports")
		require.NoError(t, err)
		assert.Equal(t, [2]int{1, 2}, v)
	})

	t.Run("ReadOnlyListOfUUID", func(t *testing.T) {
		v, err := As[ReadOnly[uuid.UUID]](r, "Ids")
		require.NoError(t, err)
		require.Equal(t, 1, v.Len())
		assert.Equal(t, uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), v.At(0))

		// Mutating the copy must not touch the sequence
		values := v.Values()
		values[0] = uuid.Nil
		assert.NotEqual(t, uuid.Nil, v.At(0))
	})

	t.Run("EmptyKeyIsEmptyCollection", func(t *testing.T) {
		v, err := As[[]int](r, "Nope")
		require.NoError(t, err)
		assert.Empty(t, v)
	})
}

func TestResolveStrictMode(t *testing.T) {
	r := quietResolver(retryTree(), Strict())

	t.Run("MissingScalarKey", func(t *testing.T) {
		_, err := As[int](r, "Retry:Nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("UnparseableScalar", func(t *testing.T) {
		_, err := As[int](r, "Retry:Timeout")
		var cerr *CoercionError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "Retry:Timeout", cerr.Key)
		assert.Equal(t, "30s", cerr.Raw)
	})

	t.Run("UnparseableElementFailsCollection", func(t *testing.T) {
		tree := NewTree(map[string]any{"Nums": []any{"1", "oops", "3"}})
		strict := quietResolver(tree, Strict())

		_, err := As[[]int](strict, "Nums")
		var cerr *CoercionError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "Nums:1", cerr.Key)
	})

	t.Run("AbsentKeyStillNilForNullable", func(t *testing.T) {
		v, err := As[*int](r, "Retry:Nope")
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestResolveLenientElementDefaults(t *testing.T) {
	tree := NewTree(map[string]any{"Nums": []any{"1", "oops", "3"}})
	r := quietResolver(tree)

	v, err := As[[]int](r, "Nums")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 3}, v)
}

func TestResolveUnknownShape(t *testing.T) {
	r := quietResolver(retryTree())

	_, err := r.Resolve("Retry:MaxAttempts", Type{Shape: Shape(99)})
	assert.ErrorIs(t, err, ErrShape)

	// Fail-fast is not masked by lenient mode
	_, err = quietResolver(retryTree()).Resolve("Retry:MaxAttempts", Type{Shape: Shape(99)})
	assert.ErrorIs(t, err, ErrShape)
}

func TestResolveIdempotent(t *testing.T) {
	r := quietResolver(retryTree())

	first, err := As[[]string](r, "Feature:Tags")
	require.NoError(t, err)
	second, err := As[[]string](r, "Feature:Tags")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	d1, _ := As[time.Duration](r, "Retry:Timeout")
	d2, _ := As[time.Duration](r, "Retry:Timeout")
	assert.Equal(t, d1, d2)
}

type verbosity int

const (
	quiet verbosity = iota
	normal
	loud
)

func TestResolveEnum(t *testing.T) {
	RegisterEnum(map[string]verbosity{
		"quiet":  quiet,
		"normal": normal,
		"loud":   loud,
	})

	tree := NewTree(map[string]any{"Log": map[string]any{"Verbosity": "Loud"}})
	r := quietResolver(tree)

	t.Run("DerivedShapeIsEnum", func(t *testing.T) {
		assert.Equal(t, ShapeEnum, TypeFor[verbosity]().Shape)
	})

	t.Run("CaseInsensitiveMatch", func(t *testing.T) {
		v, err := As[verbosity](r, "Log:Verbosity")
		require.NoError(t, err)
		assert.Equal(t, loud, v)
	})

	t.Run("UnknownMemberStrict", func(t *testing.T) {
		tree := NewTree(map[string]any{"Log": map[string]any{"Verbosity": "deafening"}})
		strict := quietResolver(tree, Strict())

		_, err := As[verbosity](strict, "Log:Verbosity")
		var cerr *CoercionError
		assert.ErrorAs(t, err, &cerr)
	})

	t.Run("UnknownMemberLenient", func(t *testing.T) {
		tree := NewTree(map[string]any{"Log": map[string]any{"Verbosity": "deafening"}})
		v, err := As[verbosity](quietResolver(tree), "Log:Verbosity")
		require.NoError(t, err)
		assert.Equal(t, quiet, v) // zero value
	})
}

func TestTypeForShapes(t *testing.T) {
	tests := []struct {
		name  string
		typ   Type
		shape Shape
	}{
		{"Scalar", TypeFor[int](), ShapeScalar},
		{"Nullable", TypeFor[*int](), ShapeNullable},
		{"Slice", TypeFor[[]string](), ShapeArray},
		{"FixedArray", TypeFor[[4]int](), ShapeArray},
		{"ReadOnly", TypeFor[ReadOnly[string]](), ShapeReadOnlyList},
		{"ExplicitList", ListOf[string](), ShapeList},
		{"ExplicitNullable", NullableOf[time.Duration](), ShapeNullable},
		{"ExplicitReadOnly", ReadOnlyListOf[int](), ShapeReadOnlyList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.shape, tt.typ.Shape)
		})
	}
}
