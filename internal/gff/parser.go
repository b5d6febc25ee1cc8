package gff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// SourceRNAcentral is the source whose records use space-separated
// attributes and carry the real category in the type attribute.
const SourceRNAcentral = "RNAcentral"

// NumFields is the number of tab-separated columns in a record.
const NumFields = 9

// ParseError reports a record that does not conform to the format.
type ParseError struct {
	Line int    // 1-based line number, 0 if unknown
	Text string // offending line
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser turns record lines into features.
type Parser struct {
	ucsc    bool
	logger  *zap.Logger
	unknown map[string]int
}

// NewParser creates a parser. When ucsc is true chromosome names are
// replaced by their display names.
func NewParser(ucsc bool) *Parser {
	return &Parser{
		ucsc:    ucsc,
		logger:  zap.NewNop(),
		unknown: make(map[string]int),
	}
}

// SetLogger sets the logger that receives record diagnostics.
func (p *Parser) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Unknown returns the number of records seen for each unknown category.
func (p *Parser) Unknown() map[string]int {
	out := make(map[string]int, len(p.unknown))
	for k, v := range p.unknown {
		out[k] = v
	}
	return out
}

// Parse parses a single record line.
// It returns nil, nil when the record's category is dropped.
func (p *Parser) Parse(line string) (*Feature, error) {
	text := strings.TrimSpace(line)
	fields := strings.Split(text, "\t")
	if len(fields) < NumFields {
		return nil, &ParseError{Text: text, Err: fmt.Errorf("expected %d fields, got %d", NumFields, len(fields))}
	}

	category := fields[2]
	switch Classify(category).Kind {
	case Denied:
		return nil, nil
	case Unknown:
		if p.unknown[category] == 0 {
			p.logger.Warn("unknown feature category", zap.String("category", category))
		}
		p.unknown[category]++
		return nil, nil
	}

	source := fields[1]
	var (
		attrs Attributes
		err   error
	)
	if source == SourceRNAcentral {
		attrs, err = ParseRNAcentralAttributes(fields[8])
	} else {
		attrs, err = ParseAttributes(fields[8])
	}
	if err != nil {
		return nil, &ParseError{Text: text, Err: err}
	}

	if category == "mRNA" {
		if v, ok := attrs["Parent"]; !ok {
			p.logger.Warn("parent missing from mRNA", zap.String("line", text))
		} else if len(v.Members()) == 0 {
			p.logger.Warn("parent set empty", zap.String("line", text))
		}
	}

	chrom := fields[0]
	if p.ucsc {
		chrom = ChromDisplayName(chrom)
	}

	if source == SourceRNAcentral {
		typ, ok := attrs["type"]
		if !ok {
			return nil, &ParseError{Text: text, Err: errors.New("RNAcentral record has no type attribute")}
		}
		category = typ.String()
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, &ParseError{Text: text, Err: fmt.Errorf("parse start: %w", err)}
	}
	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, &ParseError{Text: text, Err: fmt.Errorf("parse end: %w", err)}
	}

	f := &Feature{
		Chrom:      chrom,
		Source:     source,
		Category:   category,
		Start:      start,
		End:        end,
		Score:      fields[5],
		Strand:     fields[6],
		Frame:      fields[7],
		Attributes: attrs,
	}

	if id, ok := attrs["ID"]; ok {
		f.ID = Declared(id.String())
	} else {
		f.ID = NewSynthetic()
		if !IsAnonymousPart(category) {
			p.logger.Warn("feature missing ID",
				zap.String("chrom", f.Chrom),
				zap.Int64("start", f.Start),
				zap.Int64("end", f.End),
				zap.String("source", f.Source),
				zap.String("category", f.Category))
		}
	}

	return f, nil
}
