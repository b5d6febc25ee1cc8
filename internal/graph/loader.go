package graph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/gffanno/internal/gff"
	"github.com/inodb/gffanno/internal/gffio"
)

// fastaMarker starts the sequence section some GFF3 files append.
const fastaMarker = "##FASTA"

// Loader builds a Graph from an annotation file.
type Loader struct {
	path   string
	parser *gff.Parser
	logger *zap.Logger
}

// NewLoader creates a loader for path ("-" for stdin).
func NewLoader(path string, p *gff.Parser) *Loader {
	return &Loader{
		path:   path,
		parser: p,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger used for load diagnostics and for the graph.
func (l *Loader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

// Load reads the whole file into a new graph.
func (l *Loader) Load() (*Graph, error) {
	r, err := gffio.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	g, err := l.Read(r)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.path, err)
	}
	return g, nil
}

// Read folds every record in r into a new graph, in order.
// A malformed record aborts the load with a *gff.ParseError.
func (l *Loader) Read(r io.Reader) (*Graph, error) {
	scanner := bufio.NewScanner(r)
	// Attribute columns with long Dbxref lists exceed the default token size.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	g := New()
	g.SetLogger(l.logger)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.TrimRight(line, "\r") == fastaMarker {
			break
		}
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		f, err := l.parser.Parse(line)
		if err != nil {
			var pe *gff.ParseError
			if errors.As(err, &pe) {
				pe.Line = lineNum
			}
			return nil, err
		}
		if f == nil {
			continue
		}
		g.Add(f)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GFF: %w", err)
	}

	l.logger.Info("loaded feature graph",
		zap.Int("lines", lineNum),
		zap.Int("features", g.Len()),
		zap.Int("duplicates", g.Dropped()),
		zap.Int("parents", len(g.offspring)))

	return g, nil
}
