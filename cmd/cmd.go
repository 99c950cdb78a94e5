// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create the config file if missing, initialize the database, and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// catalogCommand handles the local track & goal catalog
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Sync, import, and browse the track catalog",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Copy tracks and goals from the remote catalog",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Re-fetch every track individually after reading the feed",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent refresh workers",
						Value: 3,
					},
					&cli.BoolFlag{
						Name:  "goals",
						Usage: "Also sync goal definitions",
						Value: true,
					},
				},
				Action: r.CatalogSync,
			},
			{
				Name:  "import",
				Usage: "Import tracks and goals from a YAML or JSON file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.CatalogImport,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List cached tracks",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Only tracks of this type (song or podcast)",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Only tracks in this category",
					},
				}, jsonFlags()...),
				Action: r.CatalogList,
			},
		},
	}
}

// goalsCommand handles learning goals and enrollment
func goalsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "goals",
		Usage: "Browse goals and manage the active enrollment",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List learning goals",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Only goals in this category",
					},
					&cli.StringFlag{
						Name:  "difficulty",
						Usage: "Only goals of this difficulty",
					},
				}, jsonFlags()...),
				Action: r.GoalsList,
			},
			{
				Name:  "enroll",
				Usage: "Start a goal",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.GoalsEnroll,
			},
			{
				Name:  "advance",
				Usage: "Move the active goal forward",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "days",
						Aliases: []string{"n"},
						Usage:   "Number of days to advance",
						Value:   1,
					},
				},
				Action: r.GoalsAdvance,
			},
			{
				Name:   "complete",
				Usage:  "Mark the active goal as completed",
				Action: r.GoalsComplete,
			},
		},
	}
}

// activityCommand handles daily activity records
func activityCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "activity",
		Usage: "Record and review daily learning activity",
		Commands: []*cli.Command{
			{
				Name:  "log",
				Usage: "Add minutes and completed courses to a day",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "date",
						Aliases: []string{"d"},
						Usage:   "Day to record (YYYY-MM-DD, default: today)",
					},
					&cli.IntFlag{
						Name:    "minutes",
						Aliases: []string{"m"},
						Usage:   "Minutes learned",
					},
					&cli.IntFlag{
						Name:    "courses",
						Aliases: []string{"c"},
						Usage:   "Courses completed",
					},
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Overwrite the day instead of adding to it",
					},
				},
				Action: r.ActivityLog,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List recorded days",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "from",
						Usage: "First day to include (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "Last day to include (YYYY-MM-DD)",
					},
				}, jsonFlags()...),
				Action: r.ActivityList,
			},
		},
	}
}

// progressCommand handles the derived progress view
func progressCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "progress",
		Usage: "Show and export progress",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print today's progress summary",
				Flags:  jsonFlags(),
				Action: r.ProgressShow,
			},
			{
				Name:  "export",
				Usage: "Export a progress report",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, text, or json",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (default: progress_{date})",
					},
				},
				Action: r.ProgressExport,
			},
		},
	}
}

// badgesCommand lists the badge catalog
func badgesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "badges",
		Usage: "Badge catalog and earned badges",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List badges with earned status",
				Flags:   jsonFlags(),
				Action:  r.BadgesList,
			},
		},
	}
}

// playCommand launches the terminal player.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play today's tracks in the terminal player",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Only tracks of this type (song or podcast)",
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only tracks in this category",
			},
		},
		Action: r.Play,
	}
}

// dashboardCommand launches the terminal progress dashboard.
func dashboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"ui"},
		Usage:   "Show the progress dashboard in the terminal",
		Action:  r.Dashboard,
	}
}

// serveCommand runs the HTTP API and web dashboard.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the progress API and web dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: server.host:server.port from config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the dashboard in a browser",
			},
		},
		Action: r.Serve,
	}
}
