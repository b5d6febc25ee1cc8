package emit

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/inodb/gffanno/internal/gff"
	"github.com/inodb/gffanno/internal/graph"
)

// ErrNotEmittable is returned for categories that belong to no emitter tier.
var ErrNotEmittable = errors.New("category has no annotation tier")

// Emitter resolves gene/transcript ancestry over a loaded graph.
// The graph must not be modified while an Emitter is in use.
type Emitter struct {
	graph  *graph.Graph
	logger *zap.Logger
}

// NewEmitter creates an emitter over g.
func NewEmitter(g *graph.Graph) *Emitter {
	return &Emitter{
		graph:  g,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for ancestry diagnostics.
func (e *Emitter) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Emit writes the records for category to w and returns how many were written.
func (e *Emitter) Emit(category string, w *Writer) (int, error) {
	recs, err := e.Records(category)
	if err != nil {
		return 0, err
	}
	for _, r := range recs {
		if err := w.Write(r); err != nil {
			return 0, fmt.Errorf("write record: %w", err)
		}
	}
	return len(recs), nil
}

// Records resolves the output records for category, in graph order.
func (e *Emitter) Records(category string) ([]Record, error) {
	switch gff.Classify(category).Tier {
	case gff.TierTopLevel:
		return e.topLevel(category), nil
	case gff.TierTranscript:
		return e.transcripts(category), nil
	case gff.TierTranscriptPart:
		return e.transcriptParts(category), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotEmittable, category)
}

// topLevel labels each feature with its own identity.
func (e *Emitter) topLevel(category string) []Record {
	var recs []Record
	for _, f := range e.graph.Category(category) {
		id, ok := f.ID.Declared()
		if !ok {
			e.logger.Warn("top-level feature has no ID, skipping",
				zap.String("category", f.Category),
				zap.String("chrom", f.Chrom),
				zap.Int64("start", f.Start),
				zap.Int64("end", f.End))
			continue
		}
		recs = append(recs, Record{
			Feature:      f,
			GeneID:       id,
			TranscriptID: "",
			GeneName:     f.Attribute("Name"),
		})
	}
	return recs
}

// transcripts labels each transcript's exons with the transcript's gene.
// A transcript with no recorded children is written itself.
func (e *Emitter) transcripts(category string) []Record {
	var recs []Record
	written := make(map[gff.Identity]bool)

	for _, f := range e.graph.Category(category) {
		parents, ok := f.Parents()
		if f.Source == gff.SourceRNAcentral && !ok {
			continue
		}
		if len(parents) == 0 {
			e.logger.Warn("transcript has no parent, skipping",
				zap.Stringer("transcript", f.ID),
				zap.Bool("parent_attribute", ok))
			continue
		}
		if len(parents) > 1 {
			e.logger.Warn("transcript has multiple parents",
				zap.Stringer("transcript", f.ID),
				zap.Strings("parents", parents))
		}

		geneID := parents[0]
		geneName := gff.MissingValue
		if gene, ok := e.graph.Lookup(geneID); ok {
			geneName = gene.Attribute("Name")
		} else {
			e.logger.Warn("orphan parent",
				zap.String("category", f.Category),
				zap.Stringer("child", f.ID),
				zap.String("parent", geneID))
		}
		transcriptID := f.Attribute("Name")

		if !e.graph.HasOffspring(f.ID) {
			recs = append(recs, Record{Feature: f, GeneID: geneID, TranscriptID: transcriptID, GeneName: geneName})
			continue
		}
		for _, kid := range e.graph.Offspring(f.ID) {
			if written[kid] {
				continue
			}
			exon, ok := e.graph.Get(kid)
			if !ok || exon.Category != "exon" {
				continue
			}
			recs = append(recs, Record{Feature: exon, GeneID: geneID, TranscriptID: transcriptID, GeneName: geneName})
			written[kid] = true
		}
	}
	return recs
}

// transcriptParts labels each part with its grandparent gene and its parent
// transcript.
func (e *Emitter) transcriptParts(category string) []Record {
	var recs []Record
	for _, f := range e.graph.Category(category) {
		parents, _ := f.Parents()

		grandparents := make(map[string]bool)
		for _, par := range parents {
			pid := gff.Declared(par)
			obj, ok := e.graph.Get(pid)
			if !ok {
				e.logger.Warn("orphan parent",
					zap.String("category", f.Category),
					zap.Stringer("child", f.ID),
					zap.String("parent", par))
				continue
			}

			ids, present := obj.Parents()
			if indexed, _ := e.graph.Parents(pid); !indexed.Equal(graph.ParentView{Present: present, IDs: ids}) {
				e.logger.Warn("parental mismatch",
					zap.String("parent", par),
					zap.Strings("feature_parents", ids),
					zap.Strings("indexed_parents", indexed.IDs))
			}

			switch {
			case len(ids) > 0:
				grandparents[ids[0]] = true
			case !present:
				e.logger.Warn("missing grandparent",
					zap.String("category", obj.Category),
					zap.String("parent", par),
					zap.String("name", obj.Attribute("Name")))
			default:
				e.logger.Warn("zero grandparent",
					zap.String("category", obj.Category),
					zap.String("parent", par),
					zap.String("name", obj.Attribute("Name")))
			}
		}

		if len(grandparents) == 0 {
			continue
		}

		candidates := make([]string, 0, len(grandparents))
		for gp := range grandparents {
			candidates = append(candidates, gp)
		}
		sort.Strings(candidates)

		if len(candidates) > 1 {
			fields := []zap.Field{
				zap.String("category", category),
				zap.Stringer("feature", f.ID),
				zap.Strings("grandparents", candidates),
				zap.String("chosen", candidates[0]),
			}
			for _, par := range parents {
				if obj, ok := e.graph.Lookup(par); ok {
					fields = append(fields, zap.String("parent:"+par, obj.Category+" "+obj.Attribute("Name")))
				}
			}
			e.logger.Warn("multiple grandparents, choosing the first", fields...)
		}

		geneID := candidates[0]
		geneName := gff.MissingValue
		if gene, ok := e.graph.Lookup(geneID); ok {
			geneName = gene.Attribute("Name")
		}
		recs = append(recs, Record{
			Feature:      f,
			GeneID:       geneID,
			TranscriptID: parents[0],
			GeneName:     geneName,
		})
	}
	return recs
}
