package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"

	"github.com/youta-t/flarc"

	"github.com/nycbus/imputecalls/cmd/imputecalls/subcommands/common"
	"github.com/nycbus/imputecalls/cmd/imputecalls/subcommands/day"
	"github.com/nycbus/imputecalls/cmd/imputecalls/subcommands/initialize"
	"github.com/nycbus/imputecalls/cmd/imputecalls/subcommands/month"
	"github.com/nycbus/imputecalls/cmd/imputecalls/subcommands/serve"
	"github.com/nycbus/imputecalls/cmd/imputecalls/subcommands/year"
	"github.com/nycbus/imputecalls/pkg/utils/try"
)

func main() {
	name := path.Base(os.Args[0])
	logger := log.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	initCmd := try.To(initialize.New()).OrFatal(logger)
	dayCmd := try.To(day.New()).OrFatal(logger)
	monthCmd := try.To(month.New()).OrFatal(logger)
	yearCmd := try.To(year.New()).OrFatal(logger)
	serveCmd := try.To(serve.New()).OrFatal(logger)

	imputecalls := try.To(
		flarc.NewCommandGroup(
			"impute stop calls of NYC buses from raw positions",
			common.DefaultFlags(),
			flarc.WithSubcommand("init", initCmd),
			flarc.WithSubcommand("day", dayCmd),
			flarc.WithSubcommand("month", monthCmd),
			flarc.WithSubcommand("year", yearCmd),
			flarc.WithSubcommand("serve", serveCmd),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, imputecalls, flarc.WithHelp(true)))
}
