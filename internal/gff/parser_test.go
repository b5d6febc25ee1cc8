package gff

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedParser(ucsc bool) (*Parser, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewParser(ucsc)
	p.SetLogger(zap.New(core))
	return p, logs
}

func TestParser_Simple(t *testing.T) {
	p, logs := newObservedParser(true)

	f, err := p.Parse("2L\tFlyBase\tCDS\t7680\t8116\t.\t+\t0\tParent=FBtr0300689,FBtr0300690\n")
	require.NoError(t, err)
	require.NotNil(t, f)

	parents, ok := f.Parents()
	require.True(t, ok)
	assert.Equal(t, []string{"FBtr0300689", "FBtr0300690"}, parents)
	assert.Equal(t, "chr2L", f.Chrom)
	assert.Equal(t, "FlyBase", f.Source)
	assert.Equal(t, "CDS", f.Category)
	assert.Equal(t, int64(7680), f.Start)
	assert.Equal(t, int64(8116), f.End)
	assert.Equal(t, "0", f.Frame)
	assert.True(t, f.ID.IsSynthetic())

	// Anonymous CDS is not worth a warning.
	assert.Zero(t, logs.Len())
}

func TestParser_NoUCSC(t *testing.T) {
	p := NewParser(false)
	f, err := p.Parse("2L\tFlyBase\tgene\t1\t10\t.\t+\t.\tID=g1")
	require.NoError(t, err)
	assert.Equal(t, "2L", f.Chrom)
}

func TestParser_Unknown(t *testing.T) {
	p, logs := newObservedParser(true)

	f, err := p.Parse("2L\tFlyBase\tZork\t7680\t8116\t.\t+\t0\tParent=FBtr0300689,FBtr0300690\n")
	require.NoError(t, err)
	assert.Nil(t, f)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "Zork", entry.ContextMap()["category"])

	// Repeats are counted, not re-logged.
	_, err = p.Parse("2L\tFlyBase\tZork\t1\t2\t.\t+\t0\tID=z2")
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, map[string]int{"Zork": 2}, p.Unknown())
}

func TestParser_Denied(t *testing.T) {
	p, logs := newObservedParser(true)

	f, err := p.Parse("2L\tFlyBase\tchromosome_band\t1\t100\t.\t+\t.\tID=band1")
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Zero(t, logs.Len())
}

func TestParser_MissingID(t *testing.T) {
	p, logs := newObservedParser(true)

	f, err := p.Parse("X\tFlyBase\tgene\t100\t200\t.\t-\t.\tName=foo")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.True(t, f.ID.IsSynthetic())
	_, declared := f.ID.Declared()
	assert.False(t, declared)

	require.Equal(t, 1, logs.FilterMessage("feature missing ID").Len())
}

func TestParser_MRNAParentChecks(t *testing.T) {
	p, logs := newObservedParser(true)

	f, err := p.Parse("2L\tFlyBase\tmRNA\t1\t10\t.\t+\t.\tID=t1")
	require.NoError(t, err)
	require.NotNil(t, f, "mRNA without parent is still returned")
	assert.Equal(t, 1, logs.FilterMessage("parent missing from mRNA").Len())

	f, err = p.Parse("2L\tFlyBase\tmRNA\t1\t10\t.\t+\t.\tID=t2;Parent=")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, 1, logs.FilterMessage("parent set empty").Len())

	parents, ok := f.Parents()
	assert.True(t, ok)
	assert.Empty(t, parents)
}

func TestParser_RNAcentral(t *testing.T) {
	p := NewParser(true)
	f, err := p.Parse("1\tRNAcentral\tnoncoding_exon\t100\t200\t.\t+\t.\t" +
		`ID "URS1";type "miRNA";Parent "URS0"`)
	require.NoError(t, err)
	require.NotNil(t, f)

	assert.Equal(t, "miRNA", f.Category, "category comes from the type attribute")
	assert.Equal(t, "chr1", f.Chrom)
	id, ok := f.ID.Declared()
	require.True(t, ok)
	assert.Equal(t, "URS1", id)
}

func TestParser_HardErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few fields", "2L\tFlyBase\tgene\t1\t10"},
		{"bad start", "2L\tFlyBase\tgene\tone\t10\t.\t+\t.\tID=g1"},
		{"bad end", "2L\tFlyBase\tgene\t1\t1e3\t.\t+\t.\tID=g1"},
		{"bad attribute", "2L\tFlyBase\tgene\t1\t10\t.\t+\t.\tID=g1;oops"},
		{"rnacentral without type", "1\tRNAcentral\tnoncoding_exon\t1\t10\t.\t+\t.\tID \"u1\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewParser(true).Parse(tt.line)
			require.Error(t, err)
			assert.Nil(t, f)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.NotEmpty(t, pe.Text)
		})
	}

	_, err := NewParser(true).Parse("2L\tFlyBase\tgene\tone\t10\t.\t+\t.\tID=g1")
	var numErr *strconv.NumError
	assert.True(t, errors.As(err, &numErr))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		category string
		want     Class
	}{
		{"gene", Class{Accepted, TierTopLevel}},
		{"miRNA", Class{Accepted, TierTopLevel}},
		{"mRNA", Class{Accepted, TierTranscript}},
		{"V_gene_segment", Class{Accepted, TierTranscript}},
		{"exon", Class{Accepted, TierTranscriptPart}},
		{"intron", Class{Accepted, TierTranscriptPart}},
		{"lnc_RNA", Class{Accepted, TierOther}},
		{"noncoding_exon", Class{Accepted, TierOther}},
		{"repeat_region", Class{Kind: Denied}},
		{"stop_codon", Class{Kind: Denied}},
		{"Zork", Class{Kind: Unknown}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.category), "Classify(%q)", tt.category)
	}
}

func TestChromDisplayName(t *testing.T) {
	assert.Equal(t, "chr2R", ChromDisplayName("2R"))
	assert.Equal(t, "chrM", ChromDisplayName("MT"))
	assert.Equal(t, "chrM", ChromDisplayName("mitochondrion_genome"))
	assert.Equal(t, "scaffold_12", ChromDisplayName("scaffold_12"))
}

func TestIdentity(t *testing.T) {
	a := NewSynthetic()
	b := NewSynthetic()
	assert.NotEqual(t, a, b)
	assert.Equal(t, Declared("g1"), Declared("g1"))
	assert.True(t, Declared("z").Less(a), "declared sorts before synthetic")
	assert.True(t, a.Less(b))
	assert.True(t, Declared("a").Less(Declared("b")))
}
