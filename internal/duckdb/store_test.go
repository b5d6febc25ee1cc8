package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/gffanno/internal/gff"
	"github.com/inodb/gffanno/internal/graph"
	"github.com/inodb/gffanno/internal/report"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

const sampleGFF = `X	FlyBase	gene	100	900	.	+	.	ID=G1;Name=Foo
X	FlyBase	mRNA	100	900	.	+	.	ID=T1;Name=Foo-RA;Parent=G1
X	FlyBase	exon	100	300	.	+	.	Parent=T1
X	FlyBase	CDS	150	300	.	+	0	Parent=T1,TX
X	FlyBase	tRNA	1000	1070	.	-	.	ID=R1;Parent=GX
`

func loadSample(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.NewLoader("", gff.NewParser(true)).Read(strings.NewReader(sampleGFF))
	require.NoError(t, err)
	return g
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Empty(t, s.Path())
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "graph.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteGraph(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()
	g := loadSample(t)

	run, err := s.WriteGraph(ctx, g, FileFingerprint{Path: "-"})
	require.NoError(t, err)
	assert.Len(t, run.ID, 36)
	assert.Equal(t, 5, run.Features)

	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT count(*) FROM features WHERE run_id = ?`, run.ID).Scan(&n))
	assert.Equal(t, 5, n)

	require.NoError(t, s.DB().QueryRow(`SELECT count(*) FROM parent_refs WHERE run_id = ?`, run.ID).Scan(&n))
	assert.Equal(t, 5, n)

	// Anonymous parts have no declared identity to export.
	require.NoError(t, s.DB().QueryRow(`SELECT count(*) FROM features WHERE run_id = ? AND id IS NULL`, run.ID).Scan(&n))
	assert.Equal(t, 2, n)

	var chrom, name string
	require.NoError(t, s.DB().QueryRow(`SELECT chrom, name FROM features WHERE run_id = ? AND id = 'G1'`, run.ID).
		Scan(&chrom, &name))
	assert.Equal(t, "chrX", chrom)
	assert.Equal(t, "Foo", name)
}

func TestCategoryCounts(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	run, err := s.WriteGraph(ctx, loadSample(t), FileFingerprint{Path: "-"})
	require.NoError(t, err)

	counts, err := s.CategoryCounts(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"gene": 1, "mRNA": 1, "exon": 1, "CDS": 1, "tRNA": 1}, counts)
}

func TestOrphansMatchReport(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()
	g := loadSample(t)

	run, err := s.WriteGraph(ctx, g, FileFingerprint{Path: "-"})
	require.NoError(t, err)

	got, err := s.Orphans(ctx, run.ID)
	require.NoError(t, err)

	want := report.NewReporter(g).Orphans()
	require.Len(t, got, len(want))
	for i, o := range want {
		assert.Equal(t, o.Category, got[i].Category)
		assert.Equal(t, o.Parent, got[i].ParentID)
		if id, ok := o.Child.Declared(); ok {
			require.NotNil(t, got[i].ChildID)
			assert.Equal(t, id, *got[i].ChildID)
		} else {
			assert.Nil(t, got[i].ChildID)
		}
	}
}

func TestRunsAreIsolated(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	first, err := s.WriteGraph(ctx, loadSample(t), FileFingerprint{Path: "-"})
	require.NoError(t, err)

	g, err := graph.NewLoader("", gff.NewParser(true)).
		Read(strings.NewReader("X\tFlyBase\tgene\t1\t10\t.\t+\t.\tID=GX\n"))
	require.NoError(t, err)
	second, err := s.WriteGraph(ctx, g, FileFingerprint{Path: "-"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// GX exists only in the second run, so it does not resolve the first run's orphan.
	orphans, err := s.Orphans(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, orphans, 2)

	counts, err := s.CategoryCounts(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"gene": 1}, counts)
}

func TestLookupRun(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "in.gff")
	require.NoError(t, os.WriteFile(path, []byte(sampleGFF), 0o644))
	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(sampleGFF)), fp.Size)

	run, err := s.WriteGraph(ctx, loadSample(t), fp)
	require.NoError(t, err)

	got, ok, err := s.LookupRun(ctx, run.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, path, got.Input.Path)
	assert.Equal(t, fp.Size, got.Input.Size)
	assert.Equal(t, 5, got.Features)
	assert.False(t, got.Input.ModTime.IsZero())

	_, ok, err = s.LookupRun(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatFileStdin(t *testing.T) {
	fp, err := StatFile("-")
	require.NoError(t, err)
	assert.Equal(t, "-", fp.Path)
	assert.True(t, fp.ModTime.IsZero())

	_, err = StatFile(filepath.Join(t.TempDir(), "absent.gff"))
	assert.Error(t, err)
}
