package treedict_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbukov/mdeco/internal/treedict"
)

func Test_AddNode_NestedInsertion(t *testing.T) {
	tree := treedict.New()
	require.NoError(t, tree.AddNode([]string{"Exif", "Image", "Make"}, "ExampleCam"))
	require.NoError(t, tree.AddNode([]string{"Exif", "Image", "Model"}, "EC-1000"))
	require.NoError(t, tree.AddNode([]string{"Xmp", "dc", "creator"}, "someone"))

	exif, ok := tree.Get("Exif")
	require.True(t, ok, "expected top-level 'Exif' subtree to exist")

	image, ok := exif.(*treedict.Tree).Get("Image")
	require.True(t, ok)

	maker, ok := image.(*treedict.Tree).Get("Make")
	require.True(t, ok)
	assert.Equal(t, "ExampleCam", maker)
}

func Test_AddNode_InvalidInput(t *testing.T) {
	tree := treedict.New()
	assert.ErrorIs(t, tree.AddNode([]string{}, "value"), treedict.ErrEmptyPath)
	assert.ErrorIs(t, tree.AddNode(nil, "value"), treedict.ErrEmptyPath)
}

func Test_AddNode_Conflicts(t *testing.T) {
	tests := []struct {
		summary string
		setup   [][]string
		insert  []string
		value   any
	}{
		{
			summary: "scalar prefix blocks subtree creation",
			setup:   [][]string{{"a", "b"}},
			insert:  []string{"a", "b", "c"},
			value:   1,
		},
		{
			summary: "differing value at occupied leaf",
			setup:   [][]string{{"a", "b"}},
			insert:  []string{"a", "b"},
			value:   "different",
		},
		{
			summary: "scalar over existing subtree",
			setup:   [][]string{{"a", "b", "c"}},
			insert:  []string{"a", "b"},
			value:   42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			tree := treedict.New()
			for _, path := range tt.setup {
				require.NoError(t, tree.AddNode(path, "leaf"))
			}

			err := tree.AddNode(tt.insert, tt.value)

			conflict := &treedict.StructuralConflictError{}
			assert.ErrorAs(t, err, &conflict, "AddNode expected to report a structural conflict")
		})
	}
}

func Test_AddNode_SameValueIsIdempotent(t *testing.T) {
	tree := treedict.New()
	require.NoError(t, tree.AddNode([]string{"a", "b"}, "leaf"))
	require.NoError(t, tree.AddNode([]string{"a", "b"}, "leaf"))

	flat := tree.Flatten("/")
	assert.Equal(t, 1, flat.Len())
}

func Test_Flatten_PreservesInsertionOrder(t *testing.T) {
	tree := treedict.New()
	require.NoError(t, tree.AddNode([]string{"z", "first"}, 1))
	require.NoError(t, tree.AddNode([]string{"a", "second"}, 2))
	require.NoError(t, tree.AddNode([]string{"z", "third"}, 3))

	flat := tree.Flatten("/")
	assert.Equal(t, []string{"z/first", "z/third", "a/second"}, flat.Keys())
}

func Test_Flatten_RoundTrip(t *testing.T) {
	tree := treedict.New()
	require.NoError(t, tree.AddNode([]string{"Exif", "Image", "Make"}, "ExampleCam"))
	require.NoError(t, tree.AddNode([]string{"Exif", "Photo", "ISOSpeedRatings"}, 200))
	require.NoError(t, tree.AddNode([]string{"Iptc", "Application2", "Keywords"}, "holiday"))
	require.NoError(t, tree.AddNode([]string{"answer"}, 42))

	flat := tree.Flatten("/")

	rebuilt := treedict.New()
	for _, key := range flat.Keys() {
		value, ok := flat.Get(key)
		require.True(t, ok)
		require.NoError(t, rebuilt.AddNode(strings.Split(key, "/"), value))
	}

	originalJSON, err := json.Marshal(tree)
	require.NoError(t, err)
	rebuiltJSON, err := json.Marshal(rebuilt)
	require.NoError(t, err)

	assert.JSONEq(t, string(originalJSON), string(rebuiltJSON))
	assert.Equal(t, string(originalJSON), string(rebuiltJSON), "key ordering expected to survive the round trip")
}

func Test_MarshalJSON_DeterministicOrdering(t *testing.T) {
	tree := treedict.New()
	tree.Set("file_name", "sample.txt")
	tree.Set("file_size", 10)

	nested := treedict.New()
	nested.Set("algorithm", "sha256")
	nested.Set("value", "abc123")
	tree.Set("file_hash", nested)

	encoded, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.Equal(t, `{"file_name":"sample.txt","file_size":10,"file_hash":{"algorithm":"sha256","value":"abc123"}}`, string(encoded))
}

func Test_Merge_RejectsCollidingKeys(t *testing.T) {
	left := treedict.New()
	left.Set("file_name", "sample.txt")

	right := treedict.New()
	right.Set("file_name", "other.txt")

	conflict := &treedict.StructuralConflictError{}
	assert.ErrorAs(t, left.Merge(right), &conflict)

	same := treedict.New()
	same.Set("file_name", "sample.txt")
	assert.NoError(t, left.Merge(same), "merging an identical value is not a collision")
}

func Test_Update_LastWriteWins(t *testing.T) {
	left := treedict.New()
	left.Set("key", "original")
	left.Set("other", 1)

	right := treedict.New()
	right.Set("key", "replacement")

	left.Update(right)

	value, ok := left.Get("key")
	require.True(t, ok)
	assert.Equal(t, "replacement", value)
	assert.Equal(t, []string{"key", "other"}, left.Keys(), "replaced keys keep their original position")
}
