// Package emit writes GTF-style records that relabel features with their
// gene and transcript ancestry.
package emit

import (
	"bufio"
	"fmt"
	"io"

	"github.com/inodb/gffanno/internal/gff"
)

// Record is one output line.
type Record struct {
	Feature      *gff.Feature // supplies the 8 pass-through columns
	GeneID       string
	TranscriptID string
	GeneName     string
}

// Attributes formats the rewritten attribute column.
func (r Record) Attributes() string {
	return fmt.Sprintf(`gene_id "%s"; transcript_id "%s"; gene_name "%s";`, r.GeneID, r.TranscriptID, r.GeneName)
}

// Writer writes records in tab-delimited GTF layout.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a new record writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes a single record.
func (rw *Writer) Write(r Record) error {
	f := r.Feature
	_, err := fmt.Fprintf(rw.w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
		f.Chrom, f.Source, f.Category, f.Start, f.End,
		f.Score, f.Strand, f.Frame, r.Attributes())
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (rw *Writer) Flush() error {
	return rw.w.Flush()
}
