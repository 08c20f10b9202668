package wire

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pydex/internal/model"
)

func TestStream_RoundTrip(t *testing.T) {
	modules := []*model.Module{
		sampleModule(),
		{ObjectBase: model.ObjectBase{Name: "empty"}},
	}

	var buf bytes.Buffer
	require.NoError(t, DumpStream(&buf, modules))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2, "one document per module")
	for _, line := range lines {
		assert.NotContains(t, line, "\n")
	}

	loaded, err := LoadStream(&buf)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "app", loaded[0].Name)
	assert.Equal(t, "empty", loaded[1].Name)
	assert.Len(t, loaded[0].Members, 4)
}

func TestLoadStream_SkipsBlankLines(t *testing.T) {
	input := "\n{\"type\": \"module\", \"name\": \"a\"}\n\n{\"name\": \"b\"}\n\n"
	loaded, err := LoadStream(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "a", loaded[0].Name)
	assert.Equal(t, "b", loaded[1].Name)
}

func TestLoadStream_PropagatesDocumentErrors(t *testing.T) {
	input := "{\"type\": \"module\", \"name\": \"a\"}\n{\"type\": \"class\", \"name\": \"b\"}\n"
	_, err := LoadStream(strings.NewReader(input))
	require.Error(t, err)
	var serErr *SerializationError
	assert.ErrorAs(t, err, &serErr)
}
