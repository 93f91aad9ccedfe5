package data

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/cli/clitest"
	rerrors "github.com/julianstephens/rindful/internal/errors"
	"github.com/julianstephens/rindful/internal/models"
)

func seed(t *testing.T, app *cli.Context) {
	t.Helper()
	ctx := context.Background()
	if _, err := app.Journal.UpdateContent(ctx, "2024-06-02", "<p>Rainy walk</p>", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := app.Journal.UpdateMood(ctx, "2024-06-02", models.IntPtr(3)); err != nil {
		t.Fatal(err)
	}
	if _, err := app.Journal.UpdateMood(ctx, "2024-06-03", models.IntPtr(5)); err != nil {
		t.Fatal(err)
	}
	if _, err := app.Journal.AddTask(ctx, "2024-06-03", "Call mom"); err != nil {
		t.Fatal(err)
	}
	app.Journal.Wait()
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".csv"} {
		t.Run(ext, func(t *testing.T) {
			src, out := clitest.NewInitialized(t)
			seed(t, src)
			ctx := context.Background()

			path := filepath.Join(t.TempDir(), "export"+ext)
			if err := (&ExportCmd{Output: path}).Run(src, ctx); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), "Exported 2 entries") {
				t.Errorf("unexpected export output: %q", out.String())
			}

			dst, dout := clitest.NewInitialized(t)
			if err := (&ImportCmd{File: path}).Run(dst, ctx); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(dout.String(), "Imported 2 of 2 entries (0 skipped, 0 failed)") {
				t.Errorf("unexpected import output: %q", dout.String())
			}

			got, err := dst.Journal.GetEntry(ctx, "2024-06-03")
			if err != nil || got == nil {
				t.Fatalf("GetEntry() = %v, %v", got, err)
			}
			if got.Mood == nil || *got.Mood != 5 || len(got.Tasks) != 1 || got.Tasks[0].Title != "Call mom" {
				t.Errorf("imported entry = %+v", got)
			}
			stats, err := dst.Journal.GetStats(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if stats.LongestStreak != 2 {
				t.Errorf("stats not rebuilt after import: %+v", stats)
			}
		})
	}
}

func TestImportSkipsExistingContent(t *testing.T) {
	app, out := clitest.NewInitialized(t)
	seed(t, app)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "in.json")
	body := `[{"date":"2024-06-02","content":"<p>Other text</p>","mood":1}]`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	if err := (&ImportCmd{File: path}).Run(app, ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "1 skipped") || !strings.Contains(out.String(), "--overwrite") {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := (&ImportCmd{File: path, Overwrite: true}).Run(app, ctx); err != nil {
		t.Fatal(err)
	}
	got, _ := app.Journal.GetEntry(ctx, "2024-06-02")
	if got == nil || !strings.Contains(got.Content, "Other text") {
		t.Errorf("overwrite did not apply: %+v", got)
	}
}

func TestImportRejectsUnknownExtension(t *testing.T) {
	app, _ := clitest.NewInitialized(t)
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	err := (&ImportCmd{File: path}).Run(app, context.Background())
	if !errors.Is(err, rerrors.ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestValidateCmd(t *testing.T) {
	app, out := clitest.New(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.csv")
	csv := "Date,Mood,Content\n2024-06-01,Good,hello\n2024-06-05,3,\nnot-a-date,2,x\n"
	if err := os.WriteFile(good, []byte(csv), 0600); err != nil {
		t.Fatal(err)
	}
	if err := (&ValidateCmd{File: good}).Run(app); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "2 valid entries from 2024-06-01 to 2024-06-05") ||
		!strings.Contains(out.String(), "1 invalid record(s)") {
		t.Errorf("unexpected output: %q", out.String())
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&ValidateCmd{File: bad}).Run(app); err == nil {
		t.Fatal("expected error for malformed file")
	}
	if !strings.Contains(out.String(), "Invalid file") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestMoodExportCmd(t *testing.T) {
	app, out := clitest.NewInitialized(t)
	seed(t, app)
	ctx := context.Background()

	if err := (&MoodExportCmd{From: "2024-06-01"}).Run(app, ctx); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Total Entries: 2", "Average Mood Rating: 4/5", "Date,Time,Mood Rating,Mood Label", "2024-06-03,", ",5,Great"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("mood export missing %q:\n%s", want, out.String())
		}
	}

	err := (&MoodExportCmd{From: "2024-01-01", To: "2024-01-31"}).Run(app, ctx)
	if !errors.Is(err, rerrors.ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}
