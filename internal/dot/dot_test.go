package dot

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/gffanno/internal/gff"
	"github.com/inodb/gffanno/internal/graph"
)

const sampleGFF = `X	FlyBase	gene	100	900	.	+	.	ID=G1;Name=Foo
X	FlyBase	mRNA	100	900	.	+	.	ID=T1;Name=Foo-RA;Parent=G1
X	FlyBase	mRNA	100	900	.	+	.	ID=T2;Parent=G1
X	FlyBase	exon	100	300	.	+	.	Parent=T1,T2
X	FlyBase	CDS	150	300	.	+	0	ID=C1;Parent=T1
X	FlyBase	gene	2000	2900	.	+	.	ID=G2;Name=Bar
`

func loadSample(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.NewLoader("", gff.NewParser(true)).Read(strings.NewReader(sampleGFF))
	require.NoError(t, err)
	return g
}

func TestToDOT(t *testing.T) {
	out, err := ToDOT(loadSample(t), "G1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "digraph G {\n"))
	assert.Contains(t, out, `n0 [label="gene\nG1\nFoo\nchrX:100-900"];`)
	assert.Contains(t, out, `n1 [label="mRNA\nT1\nFoo-RA\nchrX:100-900"];`)
	assert.Contains(t, out, `n3 [label="exon\n(no ID)\nchrX:100-300"];`)
	assert.NotContains(t, out, "G2")

	var edges []string
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, "->") {
			edges = append(edges, strings.TrimSpace(l))
		}
	}
	assert.Equal(t, []string{
		"n0 -> n1;",
		"n0 -> n2;",
		"n1 -> n3;",
		"n1 -> n4;",
		"n2 -> n3;",
	}, edges)
}

func TestToDOT_Leaf(t *testing.T) {
	out, err := ToDOT(loadSample(t), "G2")
	require.NoError(t, err)
	assert.Contains(t, out, "n0 [label=")
	assert.NotContains(t, out, "->")
}

func TestToDOT_MissingRoot(t *testing.T) {
	_, err := ToDOT(loadSample(t), "nope")
	assert.True(t, errors.Is(err, ErrNoRoot))
}
