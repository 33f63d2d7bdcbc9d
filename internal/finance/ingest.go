package finance

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aadjones/pumpkin-stats/internal/importer"
	"github.com/aadjones/pumpkin-stats/internal/importlog"
	"github.com/aadjones/pumpkin-stats/internal/normalize"
)

// Problem is a file- or row-level issue met during ingestion. Line is 0 for
// problems that concern the whole file.
type Problem struct {
	File   string `json:"file"`
	Line   int    `json:"line,omitempty"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (p Problem) String() string {
	loc := p.File
	if p.Line > 0 {
		loc = fmt.Sprintf("%s line %d", p.File, p.Line)
	}
	if p.Field != "" {
		return fmt.Sprintf("%s: %s: %s", loc, p.Field, p.Reason)
	}
	return fmt.Sprintf("%s: %s", loc, p.Reason)
}

// FileResult reports the outcome of one file. Error is set when the file
// was rejected or its ingestion stopped early.
type FileResult struct {
	Name       string   `json:"name"`
	Format     string   `json:"format,omitempty"`
	Accounts   []string `json:"accounts"`
	Imported   int      `json:"imported"`
	Duplicates int      `json:"duplicates"`
	Skipped    int      `json:"skipped"`
	Error      string   `json:"error,omitempty"`
}

// IngestResult aggregates the outcome of a batch of files.
type IngestResult struct {
	Batch      string       `json:"batch"`
	Imported   int          `json:"imported"`
	Duplicates int          `json:"duplicates"`
	Skipped    int          `json:"skipped"`
	Errors     []Problem    `json:"errors"`
	Files      []FileResult `json:"files"`
}

// Failed reports whether any file was rejected.
func (r IngestResult) Failed() bool {
	for _, f := range r.Files {
		if f.Error != "" {
			return true
		}
	}
	return false
}

// readConcurrency bounds how many uploads are parsed at once.
const readConcurrency = 4

type readResult struct {
	file *importer.File
	err  error
}

// readAll is a bounded prefetch: it parses uploads concurrently, at most
// readConcurrency at a time, and keeps every parsed file in memory until the
// store loop consumes it. Results keep the order of uploads. Parsers and the
// resolver are read-only, so they are shared between goroutines.
func (s *Service) readAll(uploads []importer.Upload) []readResult {
	out := make([]readResult, len(uploads))
	var g errgroup.Group
	g.SetLimit(readConcurrency)
	for i, u := range uploads {
		i, u := i, u
		g.Go(func() error {
			format := ""
			if k, ok := s.resolver.ForFile(u.Name); ok {
				format = k.Format
			}
			out[i].file, out[i].err = s.registry.Read(u, format)
			return nil
		})
	}
	// Parse failures are per-file results; no goroutine returns an error.
	_ = g.Wait()
	return out
}

// Ingest parses uploads concurrently, then stores them one file after
// another in upload order. A bad row is skipped and a bad file is reported;
// neither stops the rest of the batch.
func (s *Service) Ingest(ctx context.Context, uploads []importer.Upload) IngestResult {
	res := IngestResult{Batch: s.newBatch(), Errors: []Problem{}, Files: []FileResult{}}
	log := s.log.With().Str("batch", res.Batch).Logger()

	read := s.readAll(uploads)
	entries := make([]importlog.Entry, 0, len(uploads))
	for i, u := range uploads {
		fr, problems := s.ingestFile(ctx, res.Batch, u.Name, read[i], log)

		res.Imported += fr.Imported
		res.Duplicates += fr.Duplicates
		res.Skipped += fr.Skipped
		res.Errors = append(res.Errors, problems...)
		res.Files = append(res.Files, fr)

		ev := log.Info()
		if fr.Error != "" {
			ev = log.Warn().Str("error", fr.Error)
		}
		ev.Str("file", fr.Name).
			Str("format", fr.Format).
			Strs("accounts", fr.Accounts).
			Int("imported", fr.Imported).
			Int("duplicates", fr.Duplicates).
			Int("skipped", fr.Skipped).
			Msg("file ingested")

		entries = append(entries, importlog.Entry{
			Timestamp:  s.now(),
			Batch:      res.Batch,
			File:       fr.Name,
			Format:     fr.Format,
			Account:    strings.Join(fr.Accounts, "; "),
			Imported:   fr.Imported,
			Duplicates: fr.Duplicates,
			Skipped:    fr.Skipped,
			Error:      fr.Error,
		})
	}

	if s.importLog != "" && len(entries) > 0 {
		if err := importlog.Append(s.importLog, entries); err != nil {
			log.Warn().Err(err).Msg("failed to write import log")
		}
	}
	return res
}

func (s *Service) ingestFile(ctx context.Context, batch, name string, read readResult, log zerolog.Logger) (FileResult, []Problem) {
	fr := FileResult{Name: name, Accounts: []string{}}
	var problems []Problem
	fail := func(err error) (FileResult, []Problem) {
		fr.Error = err.Error()
		return fr, append(problems, problemFrom(name, err))
	}

	if read.err != nil {
		return fail(read.err)
	}
	file := read.file
	fr.Format = file.Format

	for _, pe := range file.Problems {
		fr.Skipped++
		problems = append(problems, problemFrom(name, pe))
		log.Debug().Str("file", name).Int("line", pe.Line).Err(pe.Err).Msg("row skipped")
	}

	seen := map[string]bool{}
	for _, raw := range file.Rows {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		rec, err := s.normalizer.Row(file, raw)
		if err != nil {
			fr.Skipped++
			problems = append(problems, problemFrom(name, err))
			log.Debug().Str("file", name).Int("line", raw.Line).Err(err).Msg("row skipped")
			continue
		}

		tx := rec.Transaction
		tx.ImportBatch = batch
		cat, _ := s.categorizer.Apply(&tx)
		if cat.Ambiguous {
			log.Debug().
				Str("id", tx.ID).
				Str("description", tx.Description).
				Str("amount", tx.Amount.StringFixed(2)).
				Str("rule", cat.Rule).
				Str("category", cat.Category).
				Msg("no specific rule matched, default applied")
		}

		if !seen[rec.Account.Name] {
			if err := s.store.RecordAccount(ctx, rec.Account); err != nil {
				return fail(err)
			}
			seen[rec.Account.Name] = true
			fr.Accounts = append(fr.Accounts, rec.Account.Name)
		}

		inserted, err := s.store.InsertIfAbsent(ctx, tx)
		if err != nil {
			return fail(err)
		}
		if inserted {
			fr.Imported++
		} else {
			fr.Duplicates++
		}
	}
	sort.Strings(fr.Accounts)
	return fr, problems
}

func problemFrom(file string, err error) Problem {
	var pe *importer.ParseError
	if errors.As(err, &pe) {
		reason := err.Error()
		if pe.Err != nil {
			reason = pe.Err.Error()
		}
		name := pe.File
		if name == "" {
			name = file
		}
		return Problem{File: name, Line: pe.Line, Field: pe.Field, Value: pe.Value, Reason: reason}
	}
	var ve *normalize.ValidationError
	if errors.As(err, &ve) {
		return Problem{File: ve.File, Line: ve.Line, Field: ve.Field, Reason: ve.Reason}
	}
	return Problem{File: file, Reason: err.Error()}
}

// IngestDir imports every CSV in <root>/import and, when configured, moves
// the files that were read successfully to import/processed.
func (s *Service) IngestDir(ctx context.Context) (IngestResult, error) {
	files, err := importer.Scan(s.root)
	if err != nil {
		return IngestResult{}, err
	}

	uploads := make([]importer.Upload, 0, len(files))
	for _, fi := range files {
		f, err := os.Open(fi.Path)
		if err != nil {
			return IngestResult{}, fmt.Errorf("opening %s: %w", fi.Name, err)
		}
		defer f.Close()
		uploads = append(uploads, importer.Upload{Name: fi.Name, Body: f})
	}

	res := s.Ingest(ctx, uploads)

	if s.moveProcessed {
		for _, fr := range res.Files {
			if fr.Error != "" {
				continue
			}
			if err := importer.MarkProcessed(s.root, fr.Name); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}
