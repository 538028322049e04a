// Package ingest reads raw comments from delimited text files.
package ingest

import (
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sentiment-lab/domain"
	"sentiment-lab/domain/mimetypes"
	"sentiment-lab/errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/encoding/charmap"
)

type Options struct {
	TextColumn  int
	LabelColumn *int // nil when the file carries no ground truth
	Comma       rune
	HasHeader   bool
	Limit       int // 0 reads every row
}

// Result lists the comments read, in file order, and how many rows were skipped.
type Result struct {
	Comments []domain.Comment
	Skipped  int
	Encoding string
}

const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "iso-8859-1"
)

// ReadComments sniffs the file, rejects non-text content and parses one
// comment per row.
func ReadComments(path string, opts Options, log *slog.Logger) (Result, error) {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("sniff %s: %w", path, err)
	}
	if !mimetypes.IsText(detected) {
		return Result{}, fmt.Errorf("%w: %s is %s", errors.ErrUnsupportedInput, path, detected.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data, opts, log)
}

// Parse decodes raw bytes, falling back to ISO-8859-1 when they are not
// valid UTF-8, then reads the rows.
func Parse(data []byte, opts Options, log *slog.Logger) (Result, error) {
	if opts.TextColumn < 0 || (opts.LabelColumn != nil && *opts.LabelColumn < 0) {
		return Result{}, errors.ErrInvalidColumn
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	result := Result{Encoding: EncodingUTF8}
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return Result{}, fmt.Errorf("decode latin-1: %w", err)
		}
		data = decoded
		result.Encoding = EncodingLatin1
		log.Debug("Input is not UTF-8, decoded as ISO-8859-1")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}

	header := opts.HasHeader
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if stderrors.As(err, &parseErr) {
			log.Debug("Skipping malformed row", "line", parseErr.Line, "error", parseErr.Err)
			result.Skipped++
			continue
		}
		if err != nil {
			return Result{}, fmt.Errorf("read rows: %w", err)
		}
		if header {
			header = false
			continue
		}

		line, _ := reader.FieldPos(0)
		comment, ok := toComment(record, line, opts)
		if !ok {
			log.Debug("Skipping row with missing columns", "line", line, "fields", len(record))
			result.Skipped++
			continue
		}
		result.Comments = append(result.Comments, comment)
		if opts.Limit > 0 && len(result.Comments) >= opts.Limit {
			break
		}
	}
	return result, nil
}

func toComment(record []string, line int, opts Options) (domain.Comment, bool) {
	if opts.TextColumn >= len(record) {
		return domain.Comment{}, false
	}
	comment := domain.Comment{Row: line, Text: record[opts.TextColumn]}
	if opts.LabelColumn == nil {
		return comment, true
	}
	if *opts.LabelColumn >= len(record) {
		return domain.Comment{}, false
	}
	label, err := strconv.Atoi(strings.TrimSpace(record[*opts.LabelColumn]))
	if err != nil {
		return domain.Comment{}, false
	}
	comment.Label = &label
	return comment, true
}
