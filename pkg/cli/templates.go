package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/cli/config"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
	"github.com/merlin-energy/merlinctl/pkg/usecase"
	"github.com/merlin-energy/merlinctl/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const defaultDataFile = "src/data/useCaseTemplates.ts"

func cmdTemplates() *cli.Command {
	return &cli.Command{
		Name:    "templates",
		Aliases: []string{"t"},
		Usage:   "Edit and check the use case templates data file",
		Commands: []*cli.Command{
			cmdTemplatesPatch(),
			cmdTemplatesInsert(),
			cmdTemplatesCheck(),
		},
	}
}

// templateFlags are the flags naming the data file and the question sets
type templateFlags struct {
	dataFile     string
	questionSets string
	setName      string
}

func (x *templateFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "data-file",
			Aliases:     []string{"f"},
			Usage:       "TypeScript file holding the use case templates",
			Value:       defaultDataFile,
			Sources:     cli.EnvVars("MERLINCTL_DATA_FILE"),
			Destination: &x.dataFile,
		},
		&cli.StringFlag{
			Name:        "question-sets",
			Usage:       "Question set definitions (.toml, .yaml or .json); built-in sets when empty",
			Sources:     cli.EnvVars("MERLINCTL_QUESTION_SETS"),
			Destination: &x.questionSets,
		},
		&cli.StringFlag{
			Name:        "set",
			Aliases:     []string{"s"},
			Usage:       "Name of the question set to apply",
			Value:       "universal",
			Sources:     cli.EnvVars("MERLINCTL_QUESTION_SET"),
			Destination: &x.setName,
		},
	}
}

func cmdTemplatesPatch() *cli.Command {
	var tf templateFlags
	var sf sourceFile
	var fillMissing bool

	flags := append(tf.Flags(), sf.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "fill-missing",
		Usage:       "Also add missing questions of the set to templates that already have its marker",
		Sources:     cli.EnvVars("MERLINCTL_FILL_MISSING"),
		Destination: &fillMissing,
	})

	return &cli.Command{
		Name:  "patch",
		Usage: "Append a question set to every template that lacks it",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)

			sets, err := config.LoadQuestionSets(tf.questionSets)
			if err != nil {
				return err
			}
			set, err := config.FindQuestionSet(sets, tf.setName)
			if err != nil {
				return err
			}

			content, mode, err := readSource(tf.dataFile)
			if err != nil {
				return err
			}

			logger.Info("Patching templates",
				"path", tf.dataFile,
				"set", set.Name,
				"questions", set.IDs(),
				"fill_missing", fillMissing,
			)

			uc := usecase.New()
			updated, report, err := uc.PatchTemplates(ctx, content, set, usecase.PatchOptions{FillMissing: fillMissing})
			if err != nil {
				return err
			}

			printPatchReport(c.Root().Writer, report)
			if !report.Changed() {
				logger.Info("No template needs patching", "path", tf.dataFile)
				return nil
			}
			return sf.save(ctx, c.Root().Writer, tf.dataFile, content, updated, mode)
		},
	}
}

func cmdTemplatesInsert() *cli.Command {
	var tf templateFlags
	var sf sourceFile
	var after string

	flags := append(tf.Flags(), sf.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "after",
		Usage:       "ID of the question the set is inserted after",
		Required:    true,
		Destination: &after,
	})

	return &cli.Command{
		Name:  "insert",
		Usage: "Insert the questions of a set directly after an existing question",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)

			sets, err := config.LoadQuestionSets(tf.questionSets)
			if err != nil {
				return err
			}
			set, err := config.FindQuestionSet(sets, tf.setName)
			if err != nil {
				return err
			}

			original, mode, err := readSource(tf.dataFile)
			if err != nil {
				return err
			}

			uc := usecase.New()
			content := original
			anchor := types.QuestionID(after)
			for _, q := range set.Questions {
				updated, report, err := uc.InsertQuestionAfter(ctx, content, anchor, q)
				if err != nil {
					return goerr.Wrap(err, "failed to insert question", goerr.V("question", q.ID))
				}
				printPatchReport(c.Root().Writer, report)
				content = updated
				anchor = q.ID
			}

			if string(content) == string(original) {
				logger.Info("Every template already has the questions", "path", tf.dataFile)
				return nil
			}
			return sf.save(ctx, c.Root().Writer, tf.dataFile, original, content, mode)
		},
	}
}

func cmdTemplatesCheck() *cli.Command {
	var tf templateFlags

	return &cli.Command{
		Name:  "check",
		Usage: "Report syntax errors, duplicate questions and partially applied question sets",
		Flags: tf.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			sets, err := config.LoadQuestionSets(tf.questionSets)
			if err != nil {
				return err
			}
			content, _, err := readSource(tf.dataFile)
			if err != nil {
				return err
			}

			uc := usecase.New()
			result, err := uc.CheckTemplates(ctx, content, sets)
			if err != nil {
				return err
			}

			printCheckResult(c.Root().Writer, tf.dataFile, result)
			if result.HasErrors() {
				return goerr.Wrap(ErrCheckFailed, "data file has problems",
					goerr.V("path", tf.dataFile), goerr.V("issues", len(result.Issues)))
			}
			return nil
		},
	}
}

func printPatchReport(w io.Writer, report *usecase.PatchReport) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, res := range report.Results {
		switch res.Outcome {
		case usecase.PatchApplied:
			fmt.Fprintf(w, "%s %s (line %d): +%s\n", green("patched"), res.Template, res.Line, joinIDs(res.Added))
		case usecase.PatchSkipped:
			fmt.Fprintf(w, "%s %s (line %d): %s\n", yellow("skipped"), res.Template, res.Line, res.Reason)
		}
	}
	fmt.Fprintf(w, "%d patched, %d already applied, %d skipped\n",
		report.Count(usecase.PatchApplied),
		report.Count(usecase.PatchAlreadyApplied),
		report.Count(usecase.PatchSkipped),
	)
}

func printCheckResult(w io.Writer, path string, result *usecase.CheckResult) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, issue := range result.Issues {
		label := red(string(issue.Kind))
		if issue.Kind == usecase.IssueSkipped {
			label = yellow(string(issue.Kind))
		}
		location := fmt.Sprintf("%s:%d", path, issue.Line)
		if issue.Column > 0 {
			location += fmt.Sprintf(":%d", issue.Column)
		}
		if issue.Template != "" {
			location += " [" + issue.Template + "]"
		}
		fmt.Fprintf(w, "%s %s: %s\n", label, location, issue.Message)
	}

	if result.HasErrors() {
		fmt.Fprintf(w, "%s %d templates, %d issues\n", red("FAIL"), result.Templates, len(result.Issues))
		return
	}
	fmt.Fprintf(w, "%s %d templates\n", color.New(color.FgGreen).Sprint("OK"), result.Templates)
}

func joinIDs(ids []types.QuestionID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = string(id)
	}
	return strings.Join(s, ", ")
}
