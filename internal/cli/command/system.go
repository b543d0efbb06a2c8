package command

import (
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/moneygrowth-go/internal/cli/output"
	"github.com/yndnr/moneygrowth-go/internal/infra/buildinfo"
	"github.com/yndnr/moneygrowth-go/internal/telemetry/metric"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show build information",
		Action: version,
	}
}

func version(c *cli.Context) error {
	rt := GetRuntime(c)
	info := buildinfo.Get()
	return rt.render(c, info, func(w io.Writer) error {
		t := output.NewTable("FIELD", "VALUE")
		t.AddRow("version", info.Version)
		t.AddRow("commit", info.Commit)
		t.AddRow("built", info.BuildTime)
		t.AddRow("go", info.GoVersion)
		t.AddRow("platform", info.Platform)
		t.AddRow("user agent", buildinfo.UserAgent())
		return t.Render(w)
	})
}

// MetricsCommand returns the metrics command. It reports the requests made
// by this process, so it is most useful inside the REPL.
func MetricsCommand() *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Show client request metrics for this process",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Include Go runtime metrics",
			},
		},
		Action: metrics,
	}
}

func metrics(c *cli.Context) error {
	rt := GetRuntime(c)
	prefix := metric.Namespace + "_"
	if c.Bool("all") {
		prefix = ""
	}
	samples, err := metric.Snapshot(rt.Manager.Gatherer(), prefix)
	if err != nil {
		return err
	}
	return rt.render(c, samples, func(w io.Writer) error {
		return metric.WriteText(w, rt.Manager.Gatherer(), prefix)
	})
}
