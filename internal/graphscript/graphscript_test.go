package graphscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbgengine/engine"
	"dbgengine/values"
)

const sanitySource = `
input x: Tensor1 = [1.0]
input y: Tensor1 = [2.0]
node z = add(x, y)
output z
`

func TestParseAndBuildSanityProgram(t *testing.T) {
	prog, err := Parse("sanity.graph", sanitySource)
	require.NoError(t, err)

	loaded, err := Build(prog)
	require.NoError(t, err)
	require.Len(t, loaded.Graph.Inputs, 2)
	require.Len(t, loaded.Graph.Outputs, 1)

	cfg, err := engine.NewConfig(nil, 1, false, true)
	require.NoError(t, err)

	res, err := engine.Run(loaded.Graph, loaded.Registry, loaded.Inputs, cfg)
	require.NoError(t, err)

	z := loaded.Vars["z"]
	var zOut *values.Tensor
	for _, v := range res.Graph.Outputs {
		if v.Name == z.Name {
			zOut = res.RVals[v].(*values.Tensor)
		}
	}
	require.NotNil(t, zOut)
	assert.Equal(t, 3.0, zOut.Data[0])
}

const destroySource = `
input x: Tensor1 = [1.0]
node y = neg_inplace(x) destroy(0)
output y
`

func TestParseAndBuildDestroyClause(t *testing.T) {
	prog, err := Parse("destroy.graph", destroySource)
	require.NoError(t, err)

	loaded, err := Build(prog)
	require.NoError(t, err)

	node := loaded.Vars["y"].Producer
	require.NotNil(t, node)
	assert.Equal(t, map[int][]int{0: {0}}, node.DestroyMap)
}

const viewSource = `
input x: Tensor1 = [1.0, 2.0]
node y = transpose(x) view(0)
output y
`

func TestParseAndBuildViewClause(t *testing.T) {
	prog, err := Parse("view.graph", viewSource)
	require.NoError(t, err)

	loaded, err := Build(prog)
	require.NoError(t, err)

	node := loaded.Vars["y"].Producer
	require.NotNil(t, node)
	assert.Equal(t, map[int][]int{0: {0}}, node.ViewMap)
	assert.Nil(t, node.DestroyMap)
}

func TestBuildRejectsUndefinedReference(t *testing.T) {
	prog, err := Parse("bad.graph", `
input x: Tensor1 = [1.0]
node z = add(x, ghost)
output z
`)
	require.NoError(t, err)

	_, err = Build(prog)
	assert.Error(t, err)
}

func TestBuildRejectsMissingOutput(t *testing.T) {
	prog, err := Parse("bad.graph", `
input x: Tensor1 = [1.0]
`)
	require.NoError(t, err)

	_, err = Build(prog)
	assert.Error(t, err)
}
