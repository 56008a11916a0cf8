package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	workable "github.com/ianbrown80/workable-plugin"
	"github.com/ianbrown80/workable-plugin/internal/config"
	"github.com/ianbrown80/workable-plugin/internal/logger"
	"github.com/ianbrown80/workable-plugin/internal/web"
	"github.com/ianbrown80/workable-plugin/pkg/api"
	"github.com/ianbrown80/workable-plugin/pkg/prompt"
	"github.com/ianbrown80/workable-plugin/pkg/render"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "workable-form",
		Usage: "Fetch, render, and submit Workable job application forms",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the configuration file",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log progress to stderr",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log debug detail to stderr",
			},
		},
		Commands: []*cli.Command{
			renderCommand(),
			applyCommand(),
			serveCommand(),
		},
	}
}

func setup(cmd *cli.Command) (*config.Config, *workable.Pipeline, error) {
	logger.Initialize(cmd.Bool("debug"), cmd.Bool("verbose"))

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}

	pipeline, err := workable.New(api.Config{
		Subdomain: cfg.Subdomain,
		Token:     cfg.Token,
	}, workable.WithLanguage(cfg.Language))
	if err != nil {
		return nil, nil, err
	}
	return cfg, pipeline, nil
}

func shortcodeArg(cmd *cli.Command) (string, error) {
	shortcode := cmd.Args().First()
	if shortcode == "" {
		return "", fmt.Errorf("a job shortcode argument is required")
	}
	return shortcode, nil
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Print the form's HTML fragment to stdout",
		ArgsUsage: "<shortcode>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "success-url",
				Usage: "redirect target emitted as the form's data-success attribute",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, pipeline, err := setup(cmd)
			if err != nil {
				return err
			}
			shortcode, err := shortcodeArg(cmd)
			if err != nil {
				return err
			}

			successURL := cmd.String("success-url")
			if successURL == "" {
				successURL = cfg.SuccessURL
			}

			fragment, err := pipeline.RenderHTML(ctx, shortcode, render.Options{
				SuccessURL: successURL,
			})
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(fragment)
			return err
		},
	}
}

func applyCommand() *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "Fill in and submit an application interactively",
		ArgsUsage: "<shortcode>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, pipeline, err := setup(cmd)
			if err != nil {
				return err
			}
			shortcode, err := shortcodeArg(cmd)
			if err != nil {
				return err
			}

			form, err := pipeline.FetchForm(ctx, shortcode)
			if err != nil {
				return err
			}

			flow, err := prompt.NewFlow(pipeline.Catalog())
			if err != nil {
				return err
			}
			values, files, err := flow.Collect(ctx, form)
			if err != nil {
				return err
			}

			if report := pipeline.Validate(form, values); !report.Valid {
				for name, check := range report.Fields {
					if check.ShowEmpty || check.ShowEmail {
						fmt.Fprintln(os.Stderr, color.YellowString("- %s", name))
					}
				}
				return fmt.Errorf("the application is incomplete")
			}

			result := pipeline.Submit(ctx, form, values, files)
			if !result.OK() {
				return fmt.Errorf("%s", result.Error)
			}
			fmt.Println(color.GreenString(result.Success))
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Host application form pages over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "address to bind, overriding the configuration file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, pipeline, err := setup(cmd)
			if err != nil {
				return err
			}

			listen := cmd.String("listen")
			if listen == "" {
				listen = cfg.Listen
			}

			srv, err := web.NewServer(pipeline.Client(), pipeline.Renderer(), pipeline.Catalog(), web.Config{
				Listen:      listen,
				SuccessURL:  cfg.SuccessURL,
				NonceSecret: []byte(uuid.NewString()),
			})
			if err != nil {
				return err
			}

			fmt.Println(color.CyanString("Listening on %s", listen))
			srv.Start()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			select {
			case <-stop:
			case <-ctx.Done():
			}
			srv.Stop()
			return nil
		},
	}
}
