package cli_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/m-mizutani/gt"
	"github.com/merlin-energy/merlinctl/pkg/cli"
	"github.com/merlin-energy/merlinctl/pkg/tsdata"
)

const templatesSource = `export const USE_CASE_TEMPLATES = [
  {
    id: 'hotel',
    customQuestions: [
      { id: 'rooms', type: 'number', default: 100, required: true }
    ]
  },
  {
    id: 'data-center',
    customQuestions: [
      {
        id: 'gridConnection',
        type: 'select',
        default: 'reliable',
        options: [{ value: 'reliable', label: 'Reliable' }],
        required: true
      }
    ]
  }
];
`

func questionIDs(t *testing.T, content, template string) []string {
	t.Helper()
	doc, err := tsdata.Parse(context.Background(), []byte(content))
	gt.NoError(t, err).Required()
	for _, tmpl := range doc.Templates {
		if tmpl.ID != template {
			continue
		}
		ids := make([]string, 0, len(tmpl.Questions))
		for _, q := range tmpl.Questions {
			ids = append(ids, string(q.ID))
		}
		return ids
	}
	t.Fatalf("template %q not found", template)
	return nil
}

func TestTemplatesPatch(t *testing.T) {
	path := writeTemp(t, "useCaseTemplates.ts", templatesSource)

	out, err := runCLI(t, "templates", "patch", "--data-file", path)
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("patched hotel (line 2): +facilitySize, operatingHours, peakLoad, gridConnection")
	gt.String(t, out).Contains("1 patched, 1 already applied, 0 skipped")

	patched := readFile(t, path)
	gt.Value(t, questionIDs(t, patched, "hotel")).
		Equal([]string{"rooms", "facilitySize", "operatingHours", "peakLoad", "gridConnection"})
	gt.Value(t, questionIDs(t, patched, "data-center")).Equal([]string{"gridConnection"})
	gt.String(t, patched).Contains("label: 'Off-Grid - No grid connection'")

	t.Run("second run leaves the file unchanged", func(t *testing.T) {
		out, err := runCLI(t, "templates", "patch", "--data-file", path)
		gt.NoError(t, err).Required()
		gt.String(t, out).Contains("0 patched, 2 already applied, 0 skipped")
		if diff := cmp.Diff(patched, readFile(t, path)); diff != "" {
			t.Errorf("file changed on re-run (-want +got):\n%s", diff)
		}
	})

	t.Run("fill missing completes the partial block", func(t *testing.T) {
		_, err := runCLI(t, "templates", "patch", "--data-file", path, "--fill-missing")
		gt.NoError(t, err).Required()
		gt.Value(t, questionIDs(t, readFile(t, path), "data-center")).
			Equal([]string{"gridConnection", "facilitySize", "operatingHours", "peakLoad"})
	})
}

func TestTemplatesPatch_DryRun(t *testing.T) {
	path := writeTemp(t, "useCaseTemplates.ts", templatesSource)

	out, err := runCLI(t, "templates", "patch", "--data-file", path, "--dry-run")
	gt.NoError(t, err).Required()

	gt.String(t, out).Contains("--- a/" + path)
	gt.String(t, out).Contains("+++ b/" + path)
	gt.String(t, out).Contains("+        id: 'facilitySize',")
	if diff := cmp.Diff(templatesSource, readFile(t, path)); diff != "" {
		t.Errorf("dry run modified the file (-want +got):\n%s", diff)
	}
}

func TestTemplatesPatch_Backup(t *testing.T) {
	path := writeTemp(t, "useCaseTemplates.ts", templatesSource)

	_, err := runCLI(t, "templates", "patch", "--data-file", path, "--backup")
	gt.NoError(t, err).Required()

	backups, err := filepath.Glob(path + ".backup_*")
	gt.NoError(t, err).Required()
	gt.Array(t, backups).Length(1).Required()
	gt.Value(t, readFile(t, backups[0])).Equal(templatesSource)
	gt.Value(t, readFile(t, path)).NotEqual(templatesSource)
}

func TestTemplatesPatch_Errors(t *testing.T) {
	t.Run("unknown set", func(t *testing.T) {
		path := writeTemp(t, "useCaseTemplates.ts", templatesSource)
		_, err := runCLI(t, "templates", "patch", "--data-file", path, "--set", "nope")
		gt.Error(t, err)
	})

	t.Run("missing data file", func(t *testing.T) {
		_, err := runCLI(t, "templates", "patch", "--data-file", filepath.Join(t.TempDir(), "missing.ts"))
		gt.Error(t, err)
	})

	t.Run("custom question sets", func(t *testing.T) {
		path := writeTemp(t, "useCaseTemplates.ts", templatesSource)
		sets := writeTemp(t, "sets.yaml", `
sets:
  - name: solar
    marker: roofArea
    questions:
      - id: roofArea
        question: Usable roof area
        type: number
        default: 5000
        unit: sq ft
        required: false
`)
		_, err := runCLI(t, "templates", "patch", "--data-file", path, "--question-sets", sets, "--set", "solar")
		gt.NoError(t, err).Required()
		gt.Value(t, questionIDs(t, readFile(t, path), "hotel")).Equal([]string{"rooms", "roofArea"})
	})
}

func TestTemplatesInsert(t *testing.T) {
	path := writeTemp(t, "useCaseTemplates.ts", templatesSource)

	out, err := runCLI(t, "templates", "insert", "--data-file", path, "--set", "grid-capacity", "--after", "rooms")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("skipped data-center (line 8): no question rooms")

	content := readFile(t, path)
	gt.Value(t, questionIDs(t, content, "hotel")).Equal([]string{"rooms", "gridCapacity"})
	gt.Value(t, questionIDs(t, content, "data-center")).Equal([]string{"gridConnection"})

	_, err = runCLI(t, "templates", "insert", "--data-file", path, "--set", "grid-capacity", "--after", "rooms")
	gt.NoError(t, err).Required()
	gt.Value(t, readFile(t, path)).Equal(content)
}

func TestTemplatesInsert_RequiresAfter(t *testing.T) {
	path := writeTemp(t, "useCaseTemplates.ts", templatesSource)
	_, err := runCLI(t, "templates", "insert", "--data-file", path)
	gt.Error(t, err)
}

func TestTemplatesCheck(t *testing.T) {
	t.Run("partial set fails", func(t *testing.T) {
		path := writeTemp(t, "useCaseTemplates.ts", templatesSource)
		out, err := runCLI(t, "templates", "check", "--data-file", path)
		gt.Error(t, err).Is(cli.ErrCheckFailed)
		gt.String(t, out).Contains("partial " + path + ":8 [data-center]")
		gt.String(t, out).Contains("FAIL 2 templates")
	})

	t.Run("duplicate ids fail", func(t *testing.T) {
		path := writeTemp(t, "useCaseTemplates.ts", `export const USE_CASE_TEMPLATES = [
  {
    id: 'hotel',
    customQuestions: [
      { id: 'rooms', type: 'number', required: true },
      { id: 'rooms', type: 'number', required: true }
    ]
  }
];
`)
		out, err := runCLI(t, "templates", "check", "--data-file", path)
		gt.Error(t, err).Is(cli.ErrCheckFailed)
		gt.String(t, out).Contains(`question id "rooms" appears more than once`)
	})

	t.Run("complete file passes", func(t *testing.T) {
		path := writeTemp(t, "useCaseTemplates.ts", templatesSource)
		_, err := runCLI(t, "templates", "patch", "--data-file", path, "--fill-missing")
		gt.NoError(t, err).Required()

		out, err := runCLI(t, "templates", "check", "--data-file", path)
		gt.NoError(t, err)
		gt.String(t, out).Contains("OK 2 templates")
	})
}

func TestUnifiedDiff(t *testing.T) {
	diff, err := cli.UnifiedDiff("data.ts", []byte("a\nb\nc\n"), []byte("a\nB\nc\n"))
	gt.NoError(t, err).Required()
	gt.Value(t, diff).Equal("--- a/data.ts\n+++ b/data.ts\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n")
}
