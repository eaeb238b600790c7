package markdown

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown is a document built incrementally and rendered to the terminal.
type Markdown struct {
	content strings.Builder
}

func New() *Markdown {
	return &Markdown{}
}

// AddHeading adds a heading with the specified level (1-6).
func (m *Markdown) AddHeading(text string, level int) *Markdown {
	if level < 1 || level > 6 {
		level = 1
	}
	m.content.WriteString(fmt.Sprintf("%s %s\n\n", strings.Repeat("#", level), text))
	return m
}

func (m *Markdown) AddParagraph(text string) *Markdown {
	m.content.WriteString(fmt.Sprintf("%s\n\n", text))
	return m
}

// AddTable adds a table with the given headers and data. Short rows are
// padded to the header width.
func (m *Markdown) AddTable(headers []string, data [][]string) *Markdown {
	if len(headers) == 0 {
		return m
	}

	m.content.WriteString("| " + strings.Join(headers, " | ") + " |\n")

	separators := make([]string, len(headers))
	for i := range headers {
		separators[i] = "---"
	}
	m.content.WriteString("| " + strings.Join(separators, " | ") + " |\n")

	for _, row := range data {
		paddedRow := make([]string, len(headers))
		copy(paddedRow, row)
		m.content.WriteString("| " + strings.Join(paddedRow, " | ") + " |\n")
	}

	m.content.WriteString("\n")
	return m
}

func (m *Markdown) String() string {
	return m.content.String()
}

func (m *Markdown) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write([]byte(m.content.String()))
	return int64(n), err
}

// Print renders the markdown to stdout using glamour, falling back to the
// raw markdown if the terminal renderer cannot be set up.
func (m *Markdown) Print() error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(180),
	)
	if err != nil {
		_, err := m.WriteTo(os.Stdout)
		return err
	}

	out, err := renderer.Render(m.content.String())
	if err != nil {
		_, err := m.WriteTo(os.Stdout)
		return err
	}

	_, err = os.Stdout.Write([]byte(out + "\n"))
	return err
}
