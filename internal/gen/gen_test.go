package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actuallyrizzn/ucw/internal/merge"
	"github.com/actuallyrizzn/ucw/internal/spec"
)

func sampleSpec() spec.CommandSpec {
	return spec.CommandSpec{
		Name:        "cp",
		Description: "copy files and directories",
		Options: []spec.OptionSpec{
			{Flag: "-f", Aliases: []string{"--force"}, TakesValue: false, TypeHint: spec.TypeBoolean},
			{Flag: "-t", Aliases: []string{"--target-directory"}, TakesValue: true, TypeHint: spec.TypePath},
		},
		Positionals: []spec.PositionalArgSpec{
			{Name: "SOURCE", Required: true, TypeHint: spec.TypePath},
			{Name: "DEST", Required: true, TypeHint: spec.TypePath},
		},
	}
}

func TestBlockContents(t *testing.T) {
	body, err := Block(sampleSpec())
	require.NoError(t, err)

	assert.Contains(t, body, `name: "cp"`)
	assert.Contains(t, body, `description: "copy files and directories"`)
	assert.Contains(t, body, `{flag: "-f", aliases: []string{"--force"}}`)
	assert.Contains(t, body, `{flag: "-t", aliases: []string{"--target-directory"}, takesValue: true}`)
	assert.Contains(t, body, `{name: "SOURCE", required: true}`)
	assert.Contains(t, body, `{name: "DEST", required: true}`)
	assert.Contains(t, body, "func init() {")
	assert.NotContains(t, body, merge.BeginMarker("cp"), "markers belong to the merge layer")
}

func TestFileStructure(t *testing.T) {
	out, err := File(sampleSpec())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "// Command plugin file maintained by ucw"))
	assert.Contains(t, out, "package main")
	assert.Contains(t, out, merge.BeginMarker("cp"))
	assert.Contains(t, out, merge.EndMarker("cp"))
	assert.Contains(t, out, "func bindArgs(")
	assert.Contains(t, out, "func main() {")

	// The block sits between header and trailer.
	begin := strings.Index(out, merge.BeginMarker("cp"))
	entry := strings.Index(out, "func main() {")
	require.Greater(t, entry, begin)
}

func TestGenerateDeterministic(t *testing.T) {
	s := sampleSpec()
	first, err := File(s)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := File(s)
		require.NoError(t, err)
		require.Equal(t, first, again, "generation must be byte-identical across calls")
	}
}

func TestBlockVariadicArg(t *testing.T) {
	s := spec.CommandSpec{
		Name:        "ls",
		Positionals: []spec.PositionalArgSpec{{Name: "FILE", Variadic: true}},
	}
	body, err := Block(s)
	require.NoError(t, err)
	assert.Contains(t, body, `{name: "FILE", variadic: true}`)
}

func TestBlockEmptySpec(t *testing.T) {
	body, err := Block(spec.CommandSpec{Name: "mystery"})
	require.NoError(t, err)
	assert.Contains(t, body, `name: "mystery"`)
	assert.NotContains(t, body, "description:")
}
