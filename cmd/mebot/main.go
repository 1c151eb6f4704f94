package main

//  _ __ ___     ___   | |__     ___    | |_
// | '_ ` _ \   / _ \  | '_ \   / _ \   | __|
// | | | | | | |  __/  | |_) | | (_) |  | |_
// |_| |_| |_|  \___|  |_.__/   \___/    \__|
//  .  .  .  acting  as  me  so  i  don't  have  to

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mazznoer/colorgrad"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"trollfaceiv/mebot/internal/bot"
	"trollfaceiv/mebot/internal/config"
	"trollfaceiv/mebot/internal/core"
	"trollfaceiv/mebot/internal/notify"
	"trollfaceiv/mebot/internal/profile"
	"trollfaceiv/mebot/internal/tools"
	"trollfaceiv/mebot/internal/web"
)

const version = "0.3"

func main() {
	_ = godotenv.Load()

	fmt.Printf("%s\n", getBanner())

	cmd := &cli.Command{
		Name:    "mebot",
		Usage:   "a website chatbot that acts as me",
		Version: version + " - http://github.com/trollfaceiv/mebot",
		Flags:   config.GetFlags(),
		Action:  run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		// Print to stderr first in case logger isn't initialized
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		zap.S().Fatal(err)
	}
}

func getBanner() string {
	banner := `
                     _               _
  _ __ ___     ___  | |__     ___   | |_
 | '_ ` + "`" + ` _ \   / _ \ | '_ \   / _ \  | __|
 | | | | | | |  __/ | |_) | | (_) | | |_
 |_| |_| |_|  \___| |_.__/   \___/   \__|
  .  .  .  acting  as  me  so  i  don't  have  to  [v` + version + `]
`
	grad, _ := colorgrad.NewGradient().
		HtmlColors("#1115f0ff", "#fdfdfdff").
		Build()

	lines := strings.Split(banner, "\n")

	// Find max line length for gradient spread
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}

	colors := grad.Colors(uint(maxLen))
	var coloredBanner strings.Builder

	for _, line := range lines {
		for i, ch := range line {
			r, g, b, _ := colors[i].RGBA255()
			coloredBanner.WriteString(fmt.Sprintf("\x1b[38;2;%d;%d;%dm%c", r, g, b, ch))
		}
		coloredBanner.WriteString("\x1b[0m\n")
	}

	return coloredBanner.String()
}

func run(ctx context.Context, c *cli.Command) error {
	cfg := config.NewConfiguration(c)
	core.InitLogger(cfg.Server.Verbose)
	defer zap.L().Sync() // Flushes buffer, if any

	if err := cfg.VerifyConfig(); err != nil {
		return err
	}
	if cfg.Server.Verbose {
		cfg.PrintConfig()
	}

	// Profile load failures abort startup before the server binds.
	p, err := profile.Load(cfg.Profile)
	if err != nil {
		return err
	}

	pusher := notify.FromConfig(cfg.Push)
	registry := tools.NewRegistry(
		tools.NewRecordUnknownQuestion(pusher),
		tools.NewRecordUserDetails(pusher),
	)

	llm := bot.NewOpenAIClient(cfg.API)
	engine := bot.NewEngine(cfg, llm, p, registry)
	server := web.NewServer(engine, p)

	zap.S().Infow("Listening",
		"addr", cfg.Server.Addr,
		"model", cfg.Model.Model,
		"tools", len(registry.Definitions()),
	)
	return http.ListenAndServe(cfg.Server.Addr, server.Handler())
}
