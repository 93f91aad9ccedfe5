package entries

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/content"
)

// WriteCmd replaces the journal body of a day.
type WriteCmd struct {
	Text     string `arg:"" optional:"" help:"Entry text. Read from --file or stdin when omitted."`
	Date     string `short:"d" help:"Date (YYYY-MM-DD). Defaults to today."`
	File     string `short:"f" type:"existingfile" help:"Read the text from a file."`
	Markdown bool   `short:"m" help:"Treat the text as Markdown instead of HTML."`

	stdin io.Reader
}

func (c *WriteCmd) input(date string) (string, error) {
	if c.Text != "" {
		return c.Text, nil
	}
	if c.File != "" {
		data, err := os.ReadFile(c.File)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", c.File, err)
		}
		return string(data), nil
	}
	r := c.stdin
	if r == nil {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return "", fmt.Errorf("no text given; pass it as an argument, with --file or on stdin\nPrompt: %s", content.DailyPrompt(date))
		}
		r = os.Stdin
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// Body converts raw input to the stored HTML body.
func Body(raw string, markdown bool) (string, error) {
	if markdown {
		html, err := content.MarkdownToHTML(raw)
		if err != nil {
			return "", err
		}
		return content.CleanHTML(html), nil
	}
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "<") {
		raw = paragraphs(raw)
	}
	return content.CleanHTML(content.Sanitize(raw)), nil
}

// paragraphs wraps blank-line separated plain text in <p> elements.
func paragraphs(text string) string {
	var b strings.Builder
	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(p), "\n", "<br/>"))
		b.WriteString("</p>")
	}
	return b.String()
}

func (c *WriteCmd) Run(app *cli.Context, ctx context.Context) error {
	date, err := app.Date(c.Date)
	if err != nil {
		return err
	}
	raw, err := c.input(date)
	if err != nil {
		return err
	}
	body, err := Body(raw, c.Markdown)
	if err != nil {
		return err
	}

	words := content.WordCount(body)
	if words > content.WordLimit {
		app.Printf("Note: %d words, above the suggested %d\n", words, content.WordLimit)
	}
	entry, err := app.Journal.UpdateContent(ctx, date, body, words)
	if err != nil {
		return err
	}
	app.Printf("✓ Saved %d words for %s\n", entry.WordCount, entry.Date)
	return nil
}
