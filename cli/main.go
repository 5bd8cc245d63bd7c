package main

//
// main.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/Synapsr/PodcastSync/internal/cmd"
	"github.com/Synapsr/PodcastSync/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

var (
	Version   = "dev"
	Revision  = ""
	BuildDate = ""
	BuildUser = ""
	Branch    = ""
)

func buildVersionString() string {
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			var dirty string

			for _, kv := range info.Settings {
				switch kv.Key {
				case "vcs.revision":
					Revision = kv.Value
				case "vcs.time":
					BuildDate = kv.Value
				case "vcs.modified":
					dirty = kv.Value
				}
			}

			return fmt.Sprintf("Rev: %s at %s %s", Revision, BuildDate, dirty)
		}
	} else {
		return fmt.Sprintf("Version: %s, Rev: %s, Build: %s by %s from %s",
			Version, Revision, BuildDate, BuildUser, Branch)
	}

	return Version
}

func main() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "print-version",
		Aliases: []string{"V"},
		Usage:   "Print version.",
	}

	root := &cli.Command{
		Name:    "podcastsync",
		Usage:   "PodcastSync client",
		Version: buildVersionString(),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "podcastsync.toml", Usage: "Configuration file"},
			&cli.StringFlag{Name: "log.level", Value: "info", Usage: "Log level (debug, info, warn, error)"},
			&cli.StringFlag{Name: "log.format", Value: "logfmt", Usage: "Log format (logfmt, json, syslog, journald)"},
			&cli.StringFlag{Name: "debug", Value: "", Usage: "Debug flags (logbody, do, go, events, all)"},
		},
		Commands: []*cli.Command{
			watchCommand(),
			subscriptionCommands(),
			episodeCommands(),
			playCommand(),
			updateCommand(),
			feedCommands(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		os.Exit(1)
	}
}

// prepare initialize logging and return common command parameters.
func prepare(c *cli.Command) (string, config.DebugFlags) {
	initializeLogger(c.String("log.level"), c.String("log.format"))

	return c.String("config"), config.NewDebugFlags(c.String("debug"))
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "run the reconciliation loop in the foreground",
		Action: func(ctx context.Context, c *cli.Command) error {
			configPath, debugFlags := prepare(c)
			ctx = log.Logger.WithContext(ctx)

			w := cmd.Watch{ConfigPath: configPath, DebugFlags: debugFlags}

			return w.Start(ctx)
		},
	}
}

func subscriptionCommands() *cli.Command {
	return &cli.Command{
		Name:    "subscription",
		Aliases: []string{"sub"},
		Usage:   "manage subscriptions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list subscriptions",
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.SubscriptionList{ConfigPath: configPath, DebugFlags: debugFlags}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
			{
				Name:  "add",
				Usage: "add new subscription",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Required: true, Usage: "feed url"},
					&cli.StringFlag{Name: "name", Usage: "display name; resolved from the feed when empty"},
					&cli.StringFlag{Name: "output", Usage: "output directory; backend directory picker when empty"},
					&cli.IntFlag{Name: "frequency", Value: 60, Usage: "check frequency in minutes"},
					&cli.StringFlag{Name: "quality", Value: "enclosure", Usage: "preferred quality (enclosure, original, flac, mp3)"},
					&cli.IntFlag{Name: "max-episodes", Usage: "keep at most this many episodes"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.SubscriptionAdd{
						ConfigPath:      configPath,
						DebugFlags:      debugFlags,
						Name:            c.String("name"),
						RSSURL:          c.String("url"),
						OutputDirectory: c.String("output"),
						Frequency:       c.Int("frequency"),
						Quality:         c.String("quality"),
						MaxEpisodes:     c.Int("max-episodes"),
					}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
			{
				Name:  "update",
				Usage: "update existing subscription",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
					&cli.StringFlag{Name: "url"},
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "output"},
					&cli.IntFlag{Name: "frequency"},
					&cli.StringFlag{Name: "quality"},
					&cli.IntFlag{Name: "max-episodes"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.SubscriptionUpdate{
						ConfigPath:      configPath,
						DebugFlags:      debugFlags,
						ID:              c.Int64("id"),
						Name:            c.String("name"),
						RSSURL:          c.String("url"),
						OutputDirectory: c.String("output"),
						Frequency:       c.Int("frequency"),
						Quality:         c.String("quality"),
						MaxEpisodes:     c.Int("max-episodes"),
					}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
			{
				Name:  "delete",
				Usage: "delete subscription",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.SubscriptionDelete{ConfigPath: configPath, DebugFlags: debugFlags, ID: c.Int64("id")}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
			{
				Name:  "enable",
				Usage: "enable subscription",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.SubscriptionToggle{
						ConfigPath: configPath, DebugFlags: debugFlags,
						ID: c.Int64("id"), Enabled: true,
					}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
			{
				Name:  "disable",
				Usage: "disable subscription",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.SubscriptionToggle{
						ConfigPath: configPath, DebugFlags: debugFlags,
						ID: c.Int64("id"), Enabled: false,
					}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
			{
				Name:  "check",
				Usage: "trigger immediate feed check",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.SubscriptionCheck{ConfigPath: configPath, DebugFlags: debugFlags, ID: c.Int64("id")}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
			{
				Name:  "export",
				Usage: "export subscriptions as opml",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Usage: "output file; stdout when empty"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.SubscriptionExport{
						ConfigPath: configPath, DebugFlags: debugFlags,
						OutputFile: c.String("output"),
					}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
			{
				Name:  "import",
				Usage: "import subscriptions from opml file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Required: true, Usage: "opml file to import"},
					&cli.StringFlag{Name: "output", Required: true, Usage: "output directory for new subscriptions"},
					&cli.IntFlag{Name: "frequency", Value: 60, Usage: "check frequency in minutes"},
					&cli.StringFlag{Name: "quality", Value: "enclosure", Usage: "preferred quality (enclosure, original, flac, mp3)"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.SubscriptionImport{
						ConfigPath:      configPath,
						DebugFlags:      debugFlags,
						InputFile:       c.String("file"),
						OutputDirectory: c.String("output"),
						Frequency:       c.Int("frequency"),
						Quality:         c.String("quality"),
					}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
		},
	}
}

func episodeCommands() *cli.Command {
	return &cli.Command{
		Name:    "episode",
		Aliases: []string{"ep"},
		Usage:   "manage episodes",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list episodes",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "subscription", Usage: "filter by subscription id"},
					&cli.StringFlag{Name: "status", Usage: "filter by download status"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.EpisodeList{
						ConfigPath: configPath, DebugFlags: debugFlags,
						SubscriptionID: c.Int64("subscription"), Status: c.String("status"),
					}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
			{
				Name:  "retry",
				Usage: "retry failed download",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.EpisodeRetry{ConfigPath: configPath, DebugFlags: debugFlags, ID: c.Int64("id")}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
			{
				Name:  "delete",
				Usage: "delete episode",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.EpisodeDelete{ConfigPath: configPath, DebugFlags: debugFlags, ID: c.Int64("id")}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
			{
				Name:  "stats",
				Usage: "show download statistics",
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.EpisodeStats{ConfigPath: configPath, DebugFlags: debugFlags}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
			{
				Name:  "verify",
				Usage: "verify downloaded file on disk",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.EpisodeVerify{ConfigPath: configPath, DebugFlags: debugFlags, ID: c.Int64("id")}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
			{
				Name:  "process-pending",
				Usage: "resume stuck pending downloads",
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.EpisodeProcessPending{ConfigPath: configPath, DebugFlags: debugFlags}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
			{
				Name:  "open",
				Usage: "reveal downloaded file in the file manager",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.EpisodeOpen{ConfigPath: configPath, DebugFlags: debugFlags, ID: c.Int64("id")}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
		},
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play an episode",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "id", Required: true},
			&cli.BoolFlag{Name: "remote", Usage: "stream from the remote url even when a local file exists"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			configPath, debugFlags := prepare(c)
			a := cmd.Play{
				ConfigPath: configPath, DebugFlags: debugFlags,
				ID: c.Int64("id"), Remote: c.Bool("remote"),
			}

			return a.Start(log.Logger.WithContext(ctx))
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update-check",
		Usage: "check for application updates",
		Action: func(ctx context.Context, c *cli.Command) error {
			configPath, debugFlags := prepare(c)
			a := cmd.UpdateCheck{ConfigPath: configPath, DebugFlags: debugFlags}

			return a.Start(log.Logger.WithContext(ctx))
		},
	}
}

func feedCommands() *cli.Command {
	return &cli.Command{
		Name:  "feed",
		Usage: "feed helpers",
		Commands: []*cli.Command{
			{
				Name:  "title",
				Usage: "resolve feed title",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					configPath, debugFlags := prepare(c)
					a := cmd.FeedTitle{ConfigPath: configPath, DebugFlags: debugFlags, URL: c.String("url")}

					return a.Start(log.Logger.WithContext(ctx))
				},
			},
		},
	}
}
