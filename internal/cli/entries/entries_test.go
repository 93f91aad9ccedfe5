package entries

import (
	"context"
	"strings"
	"testing"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/cli/clitest"
	"github.com/julianstephens/rindful/internal/content"
	"github.com/julianstephens/rindful/internal/models"
)

func TestWriteAndShow(t *testing.T) {
	app, out := clitest.NewInitialized(t)
	ctx := context.Background()

	if err := (&WriteCmd{Text: "Slept well, long walk.", Date: "2024-06-03"}).Run(app, ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Saved 4 words for 2024-06-03") {
		t.Errorf("unexpected write output: %q", out.String())
	}

	out.Reset()
	if err := (&EntryShowCmd{Date: "2024-06-03"}).Run(app, ctx); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"2024-06-03", "Mood:   N/A", "Words:  4", "Slept well, long walk."} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("show output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPrompt(t *testing.T) {
	app, out := clitest.New(t)

	if err := (&PromptCmd{}).Run(app); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != content.DailyPrompt("2024-06-04") {
		t.Errorf("prompt = %q, want the prompt for 2024-06-04", got)
	}

	out.Reset()
	if err := (&PromptCmd{Date: "2024-06-01"}).Run(app); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != content.DailyPrompt("2024-06-01") {
		t.Errorf("prompt for 2024-06-01 = %q", got)
	}

	if err := (&PromptCmd{Date: "June 1"}).Run(app); err == nil {
		t.Error("prompt accepted a bad date")
	}
}

func TestWriteMarkdown(t *testing.T) {
	app, _ := clitest.NewInitialized(t)
	ctx := context.Background()

	cmd := &WriteCmd{Markdown: true, stdin: strings.NewReader("# Today\n\nA **good** day.\n")}
	if err := cmd.Run(app, ctx); err != nil {
		t.Fatal(err)
	}
	entry, err := app.Journal.GetEntry(ctx, "2024-06-04")
	if err != nil || entry == nil {
		t.Fatalf("GetEntry() = %v, %v", entry, err)
	}
	if !strings.Contains(entry.Content, "<strong>good</strong>") {
		t.Errorf("markdown not rendered: %q", entry.Content)
	}
	if entry.WordCount != 4 {
		t.Errorf("WordCount = %d, want 4", entry.WordCount)
	}
}

func TestWriteStripsScripts(t *testing.T) {
	body, err := Body(`<p>hi</p><script>alert(1)</script>`, false)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(body, "script") {
		t.Errorf("script survived sanitizing: %q", body)
	}
}

func TestShowMissingEntry(t *testing.T) {
	app, out := clitest.NewInitialized(t)
	if err := (&EntryShowCmd{Date: "yesterday"}).Run(app, context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No entry for 2024-06-03") {
		t.Errorf("got %q", out.String())
	}
}

func TestRatingCommands(t *testing.T) {
	tests := []struct {
		name    string
		run     func(app *cli.Context, ctx context.Context) error
		wantOut string
		wantErr bool
	}{
		{
			name:    "mood number",
			run:     (&MoodCmd{Rating: "4"}).Run,
			wantOut: "Mood for 2024-06-04: Good",
		},
		{
			name:    "mood label",
			run:     (&MoodCmd{Rating: "very low", Date: "2024-06-01"}).Run,
			wantOut: "Mood for 2024-06-01: Very Low",
		},
		{
			name:    "energy label",
			run:     (&EnergyCmd{Rating: "Okay"}).Run,
			wantOut: "Energy for 2024-06-04: Okay",
		},
		{
			name: "clear",
			run: func(app *cli.Context, ctx context.Context) error {
				if err := (&MoodCmd{Rating: "5"}).Run(app, ctx); err != nil {
					return err
				}
				return (&MoodCmd{Rating: "clear"}).Run(app, ctx)
			},
			wantOut: "Mood for 2024-06-04: N/A",
		},
		{
			name:    "out of range",
			run:     (&MoodCmd{Rating: "6"}).Run,
			wantErr: true,
		},
		{
			name:    "bad date",
			run:     (&EnergyCmd{Rating: "3", Date: "2024-13-01"}).Run,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, out := clitest.NewInitialized(t)
			err := tc.run(app, context.Background())
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if !strings.Contains(out.String(), tc.wantOut) {
				t.Errorf("output %q missing %q", out.String(), tc.wantOut)
			}
		})
	}
}

func TestListAndDelete(t *testing.T) {
	app, out := clitest.NewInitialized(t)
	ctx := context.Background()
	for _, d := range []string{"2024-06-01", "2024-06-02", "2024-06-03"} {
		if _, err := app.Journal.UpdateMood(ctx, d, models.IntPtr(3)); err != nil {
			t.Fatal(err)
		}
	}

	if err := (&EntryListCmd{From: "2024-06-02", To: "2024-06-03"}).Run(app, ctx); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[1], "2024-06-03") {
		t.Errorf("rows not newest first:\n%s", out.String())
	}

	if err := (&EntryDeleteCmd{Date: "2024-06-02"}).Run(app, ctx); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&EntryListCmd{Limit: 5}).Run(app, ctx); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "2024-06-02") {
		t.Errorf("deleted entry still listed:\n%s", out.String())
	}
}

func TestDeleteDeclined(t *testing.T) {
	app, _ := clitest.NewInitialized(t)
	app.ConfirmFunc = func(string) (bool, error) { return false, nil }
	if err := (&EntryDeleteCmd{Date: "2024-06-02"}).Run(app, context.Background()); err == nil {
		t.Fatal("expected cancellation error")
	}
}
