// package formatter renders lyrics and search history to files (plain text, Markdown, JSON, CSV) and parses CSV query lists
package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/museekly/internal/models"
	"github.com/desertthunder/museekly/internal/shared"
)

// Format selects the lyrics output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format flag value. An empty name is text.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want text, markdown or json)", shared.ErrInvalidFlag, name)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// LyricsDocument is the JSON shape of exported lyrics.
type LyricsDocument struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Lyrics string `json:"lyrics"`
	Source string `json:"source,omitempty"`
}

// normalizeLyrics converts CRLF line endings and trims trailing blank lines.
func normalizeLyrics(lyrics string) string {
	lyrics = strings.ReplaceAll(lyrics, "\r\n", "\n")
	return strings.TrimRight(lyrics, "\n ")
}

// LyricsToText renders the song header followed by the lyrics
func LyricsToText(song models.SongRef, lyrics string) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\nby %s\n\n", song.Title, song.Artist))
	buf.WriteString(normalizeLyrics(lyrics))
	buf.WriteString("\n")

	return buf.Bytes()
}

// LyricsToMarkdown renders the lyrics as a Markdown document, keeping line breaks
func LyricsToMarkdown(song models.SongRef, lyrics string) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", song.Title))
	buf.WriteString(fmt.Sprintf("**Artist**: %s\n\n", song.Artist))

	for line := range strings.SplitSeq(normalizeLyrics(lyrics), "\n") {
		if strings.TrimSpace(line) == "" {
			buf.WriteString("\n")
			continue
		}
		buf.WriteString(line + "  \n")
	}

	return buf.Bytes()
}

// LyricsToJSON renders a [LyricsDocument]
func LyricsToJSON(song models.SongRef, lyrics, source string) ([]byte, error) {
	return shared.MarshalJSON(LyricsDocument{
		Artist: song.Artist,
		Title:  song.Title,
		Lyrics: normalizeLyrics(lyrics),
		Source: source,
	}, true)
}

// RenderLyrics renders lyrics in the given format. The source names the provider and is only used by JSON.
func RenderLyrics(f Format, song models.SongRef, lyrics, source string) ([]byte, error) {
	switch f {
	case FormatText, "":
		return LyricsToText(song, lyrics), nil
	case FormatMarkdown:
		return LyricsToMarkdown(song, lyrics), nil
	case FormatJSON:
		return LyricsToJSON(song, lyrics, source)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// LyricsFilename builds "{artist}_{title}.{ext}" from slugified names.
func LyricsFilename(song models.SongRef, f Format) string {
	artist := shared.Slugify(song.Artist)
	title := shared.Slugify(song.Title)
	if artist == "" {
		artist = "unknown"
	}
	if title == "" {
		title = "untitled"
	}
	return fmt.Sprintf("%s_%s.%s", artist, title, f.Extension())
}

// WriteLyrics renders lyrics and writes them to path, creating parent directories.
//
// Defaults to [LyricsFilename] in the working directory.
func WriteLyrics(f Format, song models.SongRef, lyrics, source, path string) (string, error) {
	if path == "" {
		path = LyricsFilename(song, f)
	}

	data, err := RenderLyrics(f, song, lyrics, source)
	if err != nil {
		return "", fmt.Errorf("failed to render lyrics: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write lyrics file: %w", err)
	}

	return path, nil
}

// HistoryToCSV converts search records to CSV with columns: Sequence, Artist, Title, Status, Message, Searched At
func HistoryToCSV(records []*models.SearchRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "Artist", "Title", "Status", "Message", "Searched At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range records {
		record := []string{
			strconv.Itoa(r.Sequence()),
			r.Artist(),
			r.Title(),
			string(r.Status()),
			r.Message(),
			r.CreatedAt().UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteHistoryCSV writes [HistoryToCSV] output to path, defaulting to museekly_history.csv
func WriteHistoryCSV(records []*models.SearchRecord, path string) (string, error) {
	if path == "" {
		path = "museekly_history.csv"
	}

	data, err := HistoryToCSV(records)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return path, nil
}

// ParseQueriesCSV reads "artist,title" rows.
//
// A first row of "artist,title" (any case) is treated as a header. Entirely empty rows are skipped; rows with
// an empty field are kept so they fail validation like an interactive search would.
func ParseQueriesCSV(r io.Reader) ([]models.Query, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var queries []models.Query
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read CSV: %w", shared.ErrInvalidInput, err)
		}

		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 2 {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: expected artist,title", shared.ErrInvalidInput, line)
		}
		if len(queries) == 0 && isHeader(row) {
			continue
		}

		queries = append(queries, models.Query{Artist: row[0], Title: row[1]})
	}

	return queries, nil
}

func isHeader(row []string) bool {
	return strings.EqualFold(strings.TrimSpace(row[0]), "artist") && strings.EqualFold(strings.TrimSpace(row[1]), "title")
}

// ReadQueriesFile opens path and parses it with [ParseQueriesCSV]
func ReadQueriesFile(path string) ([]models.Query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open queries file: %w", err)
	}
	defer f.Close()

	return ParseQueriesCSV(f)
}
