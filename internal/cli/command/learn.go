package command

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/moneygrowth-go/internal/api"
	"github.com/yndnr/moneygrowth-go/internal/cli/output"
	"github.com/yndnr/moneygrowth-go/internal/core/domain"
)

// LearnCommand returns the learn subcommand group.
func LearnCommand() *cli.Command {
	return &cli.Command{
		Name:  "learn",
		Usage: "Financial education lessons",
		Subcommands: []*cli.Command{
			{
				Name:  "lessons",
				Usage: "List lessons",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "level",
						Aliases: []string{"l"},
						Value:   domain.LevelAll,
						Usage:   "Filter: all, beginner, intermediate, advanced",
					},
				},
				Action: learnLessons,
			},
			{
				Name:      "show",
				Usage:     "Read a lesson",
				ArgsUsage: "LESSON_ID",
				Action:    learnShow,
			},
			{
				Name:      "complete",
				Usage:     "Mark a lesson as completed",
				ArgsUsage: "LESSON_ID",
				Before:    RequireSession,
				Action:    learnComplete,
			},
			{
				Name:   "progress",
				Usage:  "Show points, streak and achievements",
				Before: RequireSession,
				Action: learnProgress,
			},
		},
	}
}

// lessonRow is a lesson as listed, with the completion mark when known.
type lessonRow struct {
	domain.Lesson `yaml:",inline"`
	Completed     bool `json:"completed" yaml:"completed"`
}

func learnLessons(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	store, err := rt.Session(c.Context)
	if err != nil {
		return err
	}

	var progress *api.Pending[*domain.Progress]
	if store.IsAuthenticated() {
		progress = api.Go(c.Context, client.GetProgress)
	}
	lessons, err := client.GetLessons(c.Context, c.String("level"))
	if err != nil {
		return rt.fail(c, err, "Could not load lessons")
	}

	var done *domain.Progress
	if progress != nil {
		// Marks are optional; an expired session is reported elsewhere.
		if p, perr := progress.Await(c.Context); perr == nil {
			done = p
		} else {
			rt.Log.Debug("progress unavailable", "error", perr)
		}
	}

	rows := make([]lessonRow, len(lessons))
	for i, l := range lessons {
		rows[i] = lessonRow{Lesson: l, Completed: done != nil && done.HasCompleted(l.ID)}
	}

	return rt.render(c, rows, func(w io.Writer) error {
		if len(rows) == 0 {
			_, err := fmt.Fprintln(w, "No lessons at this level.")
			return err
		}
		t := output.NewTable("ID", "TITLE", "LEVEL", "CATEGORY", "MINUTES", "POINTS", "DONE")
		for _, r := range rows {
			mark := ""
			if r.Completed {
				mark = "✓"
			}
			t.AddRow(r.ID, r.Title, r.Level, r.Category,
				strconv.Itoa(r.DurationMinutes), strconv.Itoa(r.Points), mark)
		}
		return t.Render(w)
	})
}

func learnShow(c *cli.Context) error {
	rt := GetRuntime(c)
	id := c.Args().First()
	if err := domain.ValidateLessonID(id); err != nil {
		return err
	}
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	lessons, err := client.GetLessons(c.Context, domain.LevelAll)
	if err != nil {
		return rt.fail(c, err, "Could not load lessons")
	}
	for _, l := range lessons {
		if l.ID != id {
			continue
		}
		return rt.render(c, l, func(w io.Writer) error {
			text := fmt.Sprintf("# %s\n\n*%s · %s · %d min · %s*\n\n%s\n",
				l.Title, l.Level, l.Category, l.DurationMinutes, output.Points(l.Points), l.Content)
			return output.Markdown(w, text, output.DefaultWidth)
		})
	}
	return fmt.Errorf("lesson %s not found", id)
}

func learnComplete(c *cli.Context) error {
	rt := GetRuntime(c)
	id := c.Args().First()
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	progress, err := client.CompleteLesson(c.Context, id)
	if err != nil {
		return rt.fail(c, err, "Could not complete the lesson")
	}
	return rt.render(c, progress, func(w io.Writer) error {
		fmt.Fprintf(w, "Lesson %s completed.\n", id)
		fmt.Fprintf(w, "Total points: %s · lessons completed: %d · streak: %d\n",
			output.Points(progress.TotalPoints), len(progress.CompletedLessons), progress.CurrentStreak)
		return bullets(w, "Achievements", progress.Achievements)
	})
}

type progressView struct {
	Progress     *domain.Progress `json:"progress" yaml:"progress"`
	TotalLessons int              `json:"total_lessons" yaml:"total_lessons"`
}

func learnProgress(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}

	all := api.Go(c.Context, func(ctx context.Context) ([]domain.Lesson, error) {
		return client.GetLessons(ctx, domain.LevelAll)
	})
	progress, err := client.GetProgress(c.Context)
	if err != nil {
		return rt.fail(c, err, "Could not load your progress")
	}
	lessons, err := all.Await(c.Context)
	if err != nil {
		rt.Log.Warn("lesson catalogue unavailable", "error", err)
	}

	view := progressView{Progress: progress, TotalLessons: len(lessons)}
	return rt.render(c, view, func(w io.Writer) error {
		completed := len(progress.CompletedLessons)
		if view.TotalLessons > 0 {
			fmt.Fprintf(w, "Lessons: %d/%d %s\n", completed, view.TotalLessons,
				output.ProgressBar(float64(completed), float64(view.TotalLessons), 20))
		} else {
			fmt.Fprintf(w, "Lessons: %d\n", completed)
		}
		fmt.Fprintf(w, "Points:  %s\nStreak:  %d\n", output.Points(progress.TotalPoints), progress.CurrentStreak)
		return bullets(w, "Achievements", progress.Achievements)
	})
}
