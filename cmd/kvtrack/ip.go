package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"kvtrack/core"
	"kvtrack/storage"
	"kvtrack/track"
)

func ipCommand() *cli.Command {
	return &cli.Command{
		Name:  "ip",
		Usage: "track the external IP address",
		Subcommands: []*cli.Command{
			ipUpdateCommand(),
			ipGetCommand(),
			ipMonitorCommand(),
		},
	}
}

func openIPTracker(c *cli.Context) (*track.IPTracker, storage.Store, error) {
	token, err := requireToken(c)
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(c)
	if err != nil {
		return nil, nil, err
	}
	tracker := track.NewIPTracker(store, track.NewHTTPIPSource(), token, core.NewIPConfig())
	return tracker, store, nil
}

func printUpdate(result *track.UpdateResult) {
	if result.Changed {
		if result.PreviousIP != "" {
			fmt.Printf("IP changed: %s -> %s\n", result.PreviousIP, result.IP)
		} else {
			fmt.Printf("IP recorded: %s\n", result.IP)
		}
	} else {
		fmt.Printf("IP unchanged: %s\n", result.IP)
	}
}

func ipUpdateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "check the external IP once and store it",
		Action: func(c *cli.Context) error {
			tracker, store, err := openIPTracker(c)
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := tracker.Update(c.Context)
			if err != nil {
				return err
			}
			printUpdate(result)
			return nil
		},
	}
}

func ipGetCommand() *cli.Command {
	return &cli.Command{
		Name:  "get",
		Usage: "show the stored IP document",
		Action: func(c *cli.Context) error {
			tracker, store, err := openIPTracker(c)
			if err != nil {
				return err
			}
			defer store.Close()

			doc, err := tracker.Document(c.Context)
			if err != nil {
				return err
			}
			if doc.IP == "" {
				fmt.Println("no data stored yet")
				return nil
			}
			return printJSON(doc)
		},
	}
}

func ipMonitorCommand() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "periodically check the external IP and record changes",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "time between checks",
				Value: 5 * time.Minute,
			},
		},
		Action: func(c *cli.Context) error {
			token, err := requireToken(c)
			if err != nil {
				return err
			}
			store, err := openStore(c)
			if err != nil {
				return err
			}

			cached, err := storage.NewCachedStore(store)
			if err != nil {
				store.Close()
				return err
			}
			defer cached.Close()

			tracker := track.NewIPTracker(cached, track.NewHTTPIPSource(), token, core.NewIPConfig())

			ctx, cancel := monitorContext()
			defer cancel()

			interval := c.Duration("interval")
			fmt.Printf("checking IP every %s, interrupt to stop\n", interval)

			session := tracker.Monitor(ctx, interval, func(result *track.UpdateResult, err error) {
				if err != nil {
					fmt.Printf("[%s] error: %v\n", time.Now().Format("15:04:05"), err)
					return
				}
				fmt.Printf("[%s] ", result.Document.LastUpdated.Format("15:04:05"))
				printUpdate(result)
			})

			printSessionSummary(session)
			return nil
		},
	}
}
