// Command definitions. Actions live in actions.go.
package main

import "github.com/urfave/cli/v3"

func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Authenticate and cache the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Aliases:  []string{"e"},
				Usage:    "Account email",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "password",
				Aliases:  []string{"p"},
				Usage:    "Account password",
				Required: true,
				Sources:  cli.EnvVars("ROAMIO_PASSWORD"),
			},
		},
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Drop the cached session token",
		Action: r.Logout,
	}
}

func whoamiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the profile behind the cached token",
		Action: r.Whoami,
	}
}

func destinationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "destinations",
		Aliases: []string{"dest"},
		Usage:   "Browse destinations and their places",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all destinations",
				Flags:  []cli.Flag{prettyFlag()},
				Action: r.DestinationsList,
			},
			{
				Name:  "places",
				Usage: "List the places of one destination",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Destination ID",
						Required: true,
					},
					prettyFlag(),
				},
				Action: r.DestinationPlaces,
			},
		},
	}
}

func packagesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "packages",
		Aliases: []string{"pkg"},
		Usage:   "Manage travel packages",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List packages, one page at a time",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number, starting at 1",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Packages per page",
						Value: 20,
					},
					prettyFlag(),
				},
				Action: r.PackagesList,
			},
			{
				Name:  "create",
				Usage: "Create a package from a JSON draft file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path of the draft file",
						Required: true,
					},
					prettyFlag(),
				},
				Action: r.PackagesCreate,
			},
		},
	}
}

func prettyFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "pretty",
		Usage: "Pretty-print JSON output",
	}
}
