package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// Image formats understood by the quotation wall.
const (
	// FormatPNG is the default image format. It is never recorded on an entry.
	FormatPNG = "png"

	// FormatJPG is the only format override recorded on an entry.
	FormatJPG = "jpg"
)

// Quotation is one persisted upload record: the metadata of a quotation image
// and the messages rendered on it. Field order matches the on-disk key order.
type Quotation struct {
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Title    string   `json:"title"`
	Messages []string `json:"messages"`
	Footer   string   `json:"footer,omitempty"`
	Format   string   `json:"format,omitempty"`
}

// Submission is the metadata of an upload exactly as received from the client.
// All values are raw strings; Build applies the parsing rules.
type Submission struct {
	Title    string
	Width    string
	Height   string
	Messages string
	Format   string
	Footer   string
}

// CheckRequired reports a validation error when any required value is empty.
func (s *Submission) CheckRequired() error {
	if s.Title == "" || s.Width == "" || s.Height == "" || s.Messages == "" {
		return NewValidationError("", "missing required fields")
	}

	return nil
}

// ImageFormat returns the trimmed requested format, defaulting to png.
// Any other value is used verbatim as the file extension.
func (s *Submission) ImageFormat() string {
	if format := strings.TrimSpace(s.Format); format != "" {
		return format
	}

	return FormatPNG
}

// Build validates the submission and produces the entry to persist.
func (s *Submission) Build() (*Quotation, error) {
	if err := s.CheckRequired(); err != nil {
		return nil, err
	}

	width, ok := parseLeadingInt(s.Width)
	if !ok {
		return nil, NewValidationErrorWithValue("width", "must be an integer", s.Width)
	}

	height, ok := parseLeadingInt(s.Height)
	if !ok {
		return nil, NewValidationErrorWithValue("height", "must be an integer", s.Height)
	}

	q := &Quotation{
		Width:    width,
		Height:   height,
		Title:    s.Title,
		Messages: ParseMessages(s.Messages),
	}

	if footer := strings.TrimSpace(s.Footer); footer != "" {
		q.Footer = footer
	}

	if s.ImageFormat() == FormatJPG {
		q.Format = FormatJPG
	}

	return q, nil
}

// Filename returns the stored image filename for the submission.
func (s *Submission) Filename() string {
	return ImageFilename(s.Title, s.ImageFormat())
}

// ParseMessages decodes a JSON array of strings. Anything else, including
// malformed JSON, becomes a single message holding the raw value.
func ParseMessages(raw string) []string {
	var messages []string
	if err := json.Unmarshal([]byte(raw), &messages); err != nil || messages == nil {
		return []string{raw}
	}

	return messages
}

// SanitizeTitle replaces every rune other than ASCII word characters,
// CJK unified ideographs (U+4E00-U+9FA5) and '-' with '_'. The replacement
// counts UTF-16 code units, so a rune outside the BMP becomes "__".
func SanitizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	for _, r := range title {
		if isFilenameRune(r) {
			b.WriteRune(r)
			continue
		}

		n := utf16.RuneLen(r)
		if n < 1 {
			n = 1
		}

		b.WriteString(strings.Repeat("_", n))
	}

	return b.String()
}

// ImageFilename derives the stored image name from a title and format.
// Titles that sanitize to the same name share one file: last write wins.
func ImageFilename(title, format string) string {
	return SanitizeTitle(title) + "." + format
}

// RenderedHeight returns the rendered height of the entry in a column of the given width,
// preserving aspect ratio. A non-positive column width or entry width yields the
// stored height.
func (q *Quotation) RenderedHeight(columnWidth float64) float64 {
	if columnWidth <= 0 || q.Width <= 0 {
		return float64(q.Height)
	}

	return float64(q.Height) * columnWidth / float64(q.Width)
}

func isFilenameRune(r rune) bool {
	switch {
	case r == '_' || r == '-':
		return true
	case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
		return true
	case r >= 0x4E00 && r <= 0x9FA5:
		return true
	default:
		return false
	}
}

// parseLeadingInt reads an optionally signed run of decimal digits after
// leading whitespace, ignoring whatever follows it ("240px" is 240).
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == digitsStart {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}

	return n, true
}
