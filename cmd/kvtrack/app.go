package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"kvtrack/keyvalue"
	"kvtrack/stats"
	"kvtrack/storage"
)

const (
	appName    = "kvtrack"
	appVersion = "0.1.0"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    appName,
		Version: appVersion,
		Usage:   "track sensor readings and IP changes in a remote key-value document",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "API base URL",
				Value:   keyvalue.DefaultBaseURL,
				EnvVars: []string{"KV_API_URL"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "key-value store token",
				EnvVars: []string{"KV_TOKEN"},
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "use a local badger database at this path instead of the remote API",
			},
		},
		Commands: []*cli.Command{
			generateCommand(),
			deleteCommand(),
			sensorCommand(),
			ipCommand(),
		},
	}
}

// openStore picks the document store the flags ask for: a local badger
// database with --db, the remote API otherwise.
func openStore(c *cli.Context) (storage.Store, error) {
	if path := c.String("db"); path != "" {
		return storage.OpenBadgerStore(path)
	}
	client := keyvalue.NewClient(keyvalue.WithBaseURL(c.String("url")))
	return keyvalue.NewRemoteStore(client), nil
}

func requireToken(c *cli.Context) (string, error) {
	token := c.String("token")
	if token == "" {
		return "", cli.Exit("a token is required (--token or KV_TOKEN)", 1)
	}
	return token, nil
}

// monitorContext cancels on interrupt so a monitor loop can finish its
// cycle and print the session summary.
func monitorContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "create a new token",
		Action: func(c *cli.Context) error {
			if c.String("db") != "" {
				return cli.Exit("generate needs the remote API, not --db", 1)
			}
			client := keyvalue.NewClient(keyvalue.WithBaseURL(c.String("url")))
			resp, err := client.Generate(c.Context)
			if err != nil {
				return err
			}
			fmt.Println(resp.Token)
			return nil
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "delete the token's stored document",
		Action: func(c *cli.Context) error {
			token, err := requireToken(c)
			if err != nil {
				return err
			}
			store, err := openStore(c)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(c.Context, token); err != nil {
				return err
			}
			fmt.Println("document deleted")
			return nil
		},
	}
}

func printJSON(value interface{}) error {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printSessionSummary(session *stats.SessionStatistics) {
	if session.Count == 0 {
		fmt.Println("\nno updates recorded")
		return
	}
	fmt.Printf("\n%d updates between %s and %s\n",
		session.Count,
		session.FirstArrival.Format("15:04:05"),
		session.LastArrival.Format("15:04:05"))
	if session.IntervalStats.Count() > 0 {
		fmt.Printf("update interval: mean %.1fs, sd %.1fs\n",
			session.IntervalStats.Mean(), session.IntervalStats.SD())
	}
	if session.ValueStats.Count() > 0 {
		fmt.Printf("observed value: mean %.2f, sd %.2f\n",
			session.ValueStats.Mean(), session.ValueStats.SD())
	}
}
