package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RawRow is one data row as extracted by a parser, before normalization.
// Exactly one of Amount or Debit/Credit is populated depending on the format.
type RawRow struct {
	Line          int
	Date          time.Time // zero when the date cell was blank
	Description   string
	Amount        string
	Debit         string
	Credit        string
	TxnType       string
	Category      string // institution-provided category
	Account       string // embedded account name
	AccountNumber string // embedded card/account number
}

// Parser extracts raw rows from the records of one CSV file.
type Parser interface {
	// Format returns the parser name.
	Format() string
	// Detect reports whether the parser recognizes the header row.
	Detect(header []string) bool
	// Parse extracts rows from all records (header included). Row-level
	// problems are collected in the result; a returned error aborts the file.
	Parse(records [][]string) (*Result, error)
}

// Result is a parser's output for one file.
type Result struct {
	Rows     []RawRow
	Problems []*ParseError
}

func (r *Result) skip(line int, field, value string, err error) {
	r.Problems = append(r.Problems, &ParseError{Line: line, Field: field, Value: value, Err: err})
}

// Upload is one file handed to the pipeline.
type Upload struct {
	Name string
	Body io.Reader
}

// File is the parsed content of one upload.
type File struct {
	Name     string
	Format   string
	Rows     []RawRow
	Problems []*ParseError
}

// Skipped returns the number of rows dropped during parsing.
func (f *File) Skipped() int { return len(f.Problems) }

// Registry holds parsers in detection priority order.
type Registry struct {
	parsers []Parser
	byName  map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Parser)}
}

// Register appends a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.byName[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.byName[key] = p
	r.parsers = append(r.parsers, p)
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.byName[strings.ToLower(format)]
}

// Detect returns the first parser that recognizes header, or nil.
func (r *Registry) Detect(header []string) Parser {
	for _, p := range r.parsers {
		if p.Detect(header) {
			return p
		}
	}
	return nil
}

// DefaultRegistry returns a registry with all built-in parsers. The generic
// parser is registered last and accepts any header.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&BankParser{})
	r.Register(&CardParser{})
	r.Register(&HeaderlessParser{})
	r.Register(&GenericParser{})
	return r
}

// Read parses an upload. When format is empty the parser is detected from the
// header. The returned error is always a file-level *ParseError.
func (r *Registry) Read(u Upload, format string) (*File, error) {
	records, err := readRecords(u.Body)
	if err != nil {
		return nil, &ParseError{File: u.Name, Err: err}
	}

	var p Parser
	if format != "" {
		if p = r.Get(format); p == nil {
			return nil, &ParseError{File: u.Name, Err: fmt.Errorf("%w: %q", ErrUnrecognizedFormat, format)}
		}
	} else if p = r.Detect(records[0]); p == nil {
		return nil, &ParseError{File: u.Name, Err: ErrUnrecognizedFormat}
	}

	res, err := p.Parse(records)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = u.Name
			return nil, pe
		}
		return nil, &ParseError{File: u.Name, Err: err}
	}

	for _, pe := range res.Problems {
		pe.File = u.Name
	}
	return &File{Name: u.Name, Format: p.Format(), Rows: res.Rows, Problems: res.Problems}, nil
}

func readRecords(body io.Reader) ([][]string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	all, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	records := all[:0]
	for _, rec := range all {
		if !blankRecord(rec) {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}
	return records, nil
}

// importDir is the subdirectory for import CSVs.
const importDir = "import"

// processedDir is the subdirectory for processed CSVs.
const processedDir = "import/processed"

// Scan returns CSV files in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
