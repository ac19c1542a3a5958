// Package keywords parses keyword research CSV exports (Ahrefs, Semrush,
// Google Keyword Planner and similar tools) into keyword records.
package keywords

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/engineop/analyzer/models"
)

// maxKeywords caps how many rows are imported from a single file.
const maxKeywords = 5000

// ErrNoKeywordColumn is returned when no recognizable keyword column exists.
var ErrNoKeywordColumn = errors.New("no keyword column found; expected a header like \"keyword\", \"query\" or \"search term\"")

// ErrNoRows is returned when the file has a header but no data rows.
var ErrNoRows = errors.New("CSV contains no keyword rows")

// Column header aliases used by common keyword research tools, all
// matched after lowercasing and trimming.
var (
	keywordAliases    = []string{"keyword", "keywords", "query", "search term", "term"}
	volumeAliases     = []string{"volume", "search volume", "monthly searches", "avg. monthly searches", "monthly search volume"}
	difficultyAliases = []string{"difficulty", "keyword difficulty", "kd", "seo difficulty"}
	cpcAliases        = []string{"cpc", "cost per click", "avg. cpc"}
)

// Parse reads a keyword CSV from r. Files that are not valid UTF-8 are
// retried as Windows-1252 and Latin-1 before giving up.
func Parse(r io.Reader) ([]models.Keyword, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a keyword CSV already read into memory.
func ParseBytes(data []byte) ([]models.Keyword, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	if !utf8.Valid(data) {
		decoded, err := decodeFallback(data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // Tolerate ragged rows

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var result []models.Keyword
	for len(result) < maxKeywords {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		kw, ok := parseRow(row, cols)
		if ok {
			result = append(result, kw)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoRows
	}
	return result, nil
}

// columnMap holds the resolved column index per field; -1 means absent.
type columnMap struct {
	keyword    int
	volume     int
	difficulty int
	cpc        int
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{keyword: -1, volume: -1, difficulty: -1, cpc: -1}
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case cols.keyword == -1 && matchesAlias(name, keywordAliases):
			cols.keyword = i
		case cols.volume == -1 && matchesAlias(name, volumeAliases):
			cols.volume = i
		case cols.difficulty == -1 && matchesAlias(name, difficultyAliases):
			cols.difficulty = i
		case cols.cpc == -1 && matchesAlias(name, cpcAliases):
			cols.cpc = i
		}
	}
	if cols.keyword == -1 {
		return cols, ErrNoKeywordColumn
	}
	return cols, nil
}

func matchesAlias(name string, aliases []string) bool {
	for _, alias := range aliases {
		if name == alias {
			return true
		}
	}
	return false
}

func parseRow(row []string, cols columnMap) (models.Keyword, bool) {
	kw := models.Keyword{}
	if cols.keyword >= len(row) {
		return kw, false
	}
	kw.Keyword = strings.TrimSpace(row[cols.keyword])
	if kw.Keyword == "" {
		return kw, false
	}

	if cols.volume >= 0 && cols.volume < len(row) {
		if v, ok := parseIntValue(row[cols.volume]); ok {
			kw.Volume = &v
		}
	}
	if cols.difficulty >= 0 && cols.difficulty < len(row) {
		if v, ok := parseFloatValue(row[cols.difficulty]); ok {
			kw.Difficulty = &v
		}
	}
	if cols.cpc >= 0 && cols.cpc < len(row) {
		if v, ok := parseFloatValue(row[cols.cpc]); ok {
			kw.CPC = &v
		}
	}
	return kw, true
}

// cleanNumeric strips currency symbols, thousands separators and percent
// signs. Placeholder values like "-" or "n/a" map to the empty string.
func cleanNumeric(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "-", "n/a", "na", "none", "null":
		return ""
	}
	replacer := strings.NewReplacer(",", "", "$", "", "%", "", " ", "")
	return replacer.Replace(s)
}

func parseIntValue(s string) (int, bool) {
	cleaned := cleanNumeric(s)
	if cleaned == "" {
		return 0, false
	}
	// Keyword Planner exports volume as "1.5K" style values occasionally;
	// fall back to float parsing for those.
	if v, err := strconv.Atoi(cleaned); err == nil {
		return v, true
	}
	if f, ok := parseFloatValue(cleaned); ok {
		return int(f), true
	}
	return 0, false
}

func parseFloatValue(s string) (float64, bool) {
	cleaned := cleanNumeric(s)
	if cleaned == "" {
		return 0, false
	}
	multiplier := 1.0
	lower := strings.ToLower(cleaned)
	if strings.HasSuffix(lower, "k") {
		multiplier = 1000
		cleaned = cleaned[:len(cleaned)-1]
	} else if strings.HasSuffix(lower, "m") {
		multiplier = 1000000
		cleaned = cleaned[:len(cleaned)-1]
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v * multiplier, true
}

// decodeFallback tries legacy single-byte encodings for files exported by
// older spreadsheet tools.
func decodeFallback(data []byte) ([]byte, error) {
	for _, cm := range []*charmap.Charmap{charmap.Windows1252, charmap.ISO8859_1} {
		decoded, err := cm.NewDecoder().Bytes(data)
		if err == nil && utf8.Valid(decoded) {
			return decoded, nil
		}
	}
	return nil, errors.New("CSV is not valid UTF-8 and could not be decoded as Windows-1252 or Latin-1")
}
