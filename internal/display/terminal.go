// Package display provides terminal output formatting for annotate.
package display

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/gauthierbraillon/annotate/internal/dislike"
	"github.com/gauthierbraillon/annotate/internal/enrich"
	"github.com/gauthierbraillon/annotate/internal/sponsorblock"
	"github.com/gauthierbraillon/annotate/internal/youtube"
)

const (
	separator    = " • "
	defaultWidth = 80

	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

// categoryColors tints segment categories when colour is on.
var categoryColors = map[sponsorblock.Category]string{
	sponsorblock.CategorySponsor:   "\x1b[32m",
	sponsorblock.CategoryIntro:     "\x1b[36m",
	sponsorblock.CategoryOutro:     "\x1b[34m",
	sponsorblock.CategorySelfPromo: "\x1b[33m",
	sponsorblock.CategoryHighlight: "\x1b[35m",
}

// FormatterOption configures a TerminalFormatter.
type FormatterOption func(*TerminalFormatter)

// WithColor turns ANSI colour on or off.
func WithColor(enabled bool) FormatterOption {
	return func(f *TerminalFormatter) {
		f.color = enabled
	}
}

// WithWidth sets the column budget used to truncate titles.
func WithWidth(width int) FormatterOption {
	return func(f *TerminalFormatter) {
		if width > 0 {
			f.width = width
		}
	}
}

// TerminalFormatter formats annotated streams and listings for terminal display.
type TerminalFormatter struct {
	color bool
	width int
}

// NewTerminalFormatter creates a plain 80-column formatter.
func NewTerminalFormatter(opts ...FormatterOption) *TerminalFormatter {
	f := &TerminalFormatter{width: defaultWidth}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ForWriter picks colour and width from the terminal behind w. Anything that
// is not a terminal gets plain output at the default width.
func ForWriter(w io.Writer) *TerminalFormatter {
	return NewTerminalFormatter(WithColor(shouldUseColor(w)), WithWidth(terminalWidth(w)))
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func terminalWidth(w io.Writer) int {
	if file, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			return width
		}
	}
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		return cols
	}
	return defaultWidth
}

// FormatItem formats one annotated stream.
func (f *TerminalFormatter) FormatItem(item enrich.Item) string {
	var lines []string

	title := item.Stream.Name
	if title == "" {
		title = item.Stream.ID
	}
	lines = append(lines, f.paint(ansiBold, f.TruncateText(title, f.width)))

	if item.Stream.URL != "" {
		lines = append(lines, "  "+item.Stream.URL)
	}

	if item.Rating != nil {
		lines = append(lines, "  "+f.formatRating(*item.Rating))
	} else {
		lines = append(lines, "  "+f.paint(ansiDim, "no rating available"))
	}

	switch {
	case item.SegmentsErr != nil:
		lines = append(lines, "  "+f.paint(ansiRed, "segments rejected: "+item.SegmentsErr.Error()))
	case len(item.Segments) == 0:
		lines = append(lines, "  "+f.paint(ansiDim, "no segments"))
	default:
		for _, seg := range item.Segments {
			lines = append(lines, "  "+f.FormatSegment(seg))
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

// FormatItems formats several annotated streams.
func (f *TerminalFormatter) FormatItems(items []enrich.Item) string {
	if len(items) == 0 {
		return "No streams to display.\n"
	}

	var formatted []string
	for _, item := range items {
		formatted = append(formatted, f.FormatItem(item))
	}

	return strings.Join(formatted, "\n---\n\n")
}

func (f *TerminalFormatter) formatRating(r dislike.RatingInfo) string {
	parts := []string{
		f.paint(ansiGreen, FormatCount(r.Likes)+" likes"),
		f.paint(ansiRed, FormatCount(r.Dislikes)+" dislikes"),
	}
	if r.Rating > 0 {
		parts = append(parts, fmt.Sprintf("rating %.2f", r.Rating))
	}
	if r.ViewCount > 0 {
		parts = append(parts, FormatCount(r.ViewCount)+" views")
	}
	if r.Deleted {
		parts = append(parts, "deleted")
	}
	return strings.Join(parts, separator)
}

// FormatSegment renders "[category] start - end (action)". A merged chain
// is shown with its overall bounds.
func (f *TerminalFormatter) FormatSegment(s sponsorblock.Segment) string {
	label := "[" + string(s.Category) + "]"
	if color, ok := categoryColors[s.Category]; ok {
		label = f.paint(color, label)
	}

	line := fmt.Sprintf("%s %s - %s (%s)", label, FormatMillis(s.ChainStart()), FormatMillis(s.ChainEnd()), s.Action)
	if len(s.Chain) > 1 {
		line += fmt.Sprintf(" [%d merged]", len(s.Chain))
	}
	if s.UUID != "" {
		line += " " + f.paint(ansiDim, s.UUID)
	}
	return line
}

// FormatStreamItem formats one listing entry.
func (f *TerminalFormatter) FormatStreamItem(item youtube.StreamItem) string {
	lines := []string{f.paint(ansiBold, f.TruncateText(item.Name, f.width))}

	uploader := item.UploaderName
	if item.UploaderVerified {
		uploader += " ✓"
	}

	var meta []string
	if uploader != "" {
		meta = append(meta, "by "+uploader)
	}
	if item.DurationSeconds >= 0 {
		meta = append(meta, FormatMillis(float64(item.DurationSeconds)*1000))
	}
	if item.ViewCount >= 0 {
		meta = append(meta, FormatCount(item.ViewCount)+" views")
	}
	if item.TextualUploadDate != "" {
		meta = append(meta, item.TextualUploadDate)
	}
	if len(meta) > 0 {
		lines = append(lines, "  "+strings.Join(meta, separator))
	}

	lines = append(lines, "  "+item.URL)
	return strings.Join(lines, "\n") + "\n"
}

// FormatListing formats a listing under its title, followed by a count of
// the entries that could not be read.
func (f *TerminalFormatter) FormatListing(name string, items []youtube.StreamItem, itemErrs []error) string {
	var b strings.Builder

	if name != "" {
		b.WriteString(f.paint(ansiBold, name) + "\n\n")
	}

	if len(items) == 0 {
		b.WriteString("No items to display.\n")
	}
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.FormatStreamItem(item))
	}

	if len(itemErrs) > 0 {
		b.WriteString("\n" + f.paint(ansiDim, fmt.Sprintf("%d item(s) skipped", len(itemErrs))) + "\n")
	}

	return b.String()
}

// FormatOutcome reports the result of a submission or vote.
func (f *TerminalFormatter) FormatOutcome(action string, o sponsorblock.Outcome) string {
	switch {
	case !o.Sent:
		return action + ": not sent\n"
	case o.OK():
		return f.paint(ansiGreen, fmt.Sprintf("%s: accepted (status %d)", action, o.StatusCode)) + "\n"
	default:
		return f.paint(ansiRed, fmt.Sprintf("%s: rejected (status %d)", action, o.StatusCode)) + "\n"
	}
}

// FormatMillis renders milliseconds as "m:ss", "h:mm:ss", or with a
// fractional second when one is present ("0:12.5").
func FormatMillis(ms float64) string {
	if ms < 0 || math.IsNaN(ms) {
		return "?"
	}

	tenths := int64(math.Round(ms / 100))
	total := tenths / 10
	frac := tenths % 10

	h, m, s := total/3600, (total/60)%60, total%60

	var out string
	if h > 0 {
		out = fmt.Sprintf("%d:%02d:%02d", h, m, s)
	} else {
		out = fmt.Sprintf("%d:%02d", m, s)
	}
	if frac != 0 {
		out += "." + strconv.FormatInt(frac, 10)
	}
	return out
}

// FormatCount groups digits in threes: 1234567 becomes "1,234,567".
func FormatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}

func (f *TerminalFormatter) paint(code, text string) string {
	if !f.color || text == "" {
		return text
	}
	return code + text + ansiReset
}
