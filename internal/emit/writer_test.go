package emit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/gffanno/internal/gff"
)

func TestWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	f := &gff.Feature{
		Chrom: "chr3R", Source: "FlyBase", Category: "CDS",
		Start: 4117, End: 4339, Score: ".", Strand: "-", Frame: "2",
	}
	require.NoError(t, w.Write(Record{Feature: f, GeneID: "FBgn0267431", TranscriptID: "FBtr0346770", GeneName: "Myo81F"}))
	assert.Empty(t, buf.String(), "output is buffered until Flush")
	require.NoError(t, w.Flush())

	assert.Equal(t, "chr3R\tFlyBase\tCDS\t4117\t4339\t.\t-\t2\t"+
		`gene_id "FBgn0267431"; transcript_id "FBtr0346770"; gene_name "Myo81F";`+"\n", buf.String())
}

func TestRecord_AttributesNone(t *testing.T) {
	r := Record{GeneID: "G1", TranscriptID: gff.MissingValue, GeneName: gff.MissingValue}
	assert.Equal(t, `gene_id "G1"; transcript_id "None"; gene_name "None";`, r.Attributes())
}
