package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"kvtrack/core"
	"kvtrack/document"
	"kvtrack/storage"
	"kvtrack/track"
)

func sensorCommand() *cli.Command {
	return &cli.Command{
		Name:  "sensor",
		Usage: "log and inspect sensor readings",
		Subcommands: []*cli.Command{
			sensorLogCommand(),
			sensorViewCommand(),
			sensorStatsCommand(),
			sensorMonitorCommand(),
		},
	}
}

func openDashboard(c *cli.Context) (*track.SensorDashboard, storage.Store, error) {
	token, err := requireToken(c)
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(c)
	if err != nil {
		return nil, nil, err
	}
	return track.NewSensorDashboard(store, token, core.NewSensorConfig()), store, nil
}

func readingFromFlags(c *cli.Context) (document.Reading, error) {
	var reading document.Reading
	set := false
	for flag, field := range map[string]**float64{
		"temp":     &reading.Temperature,
		"humidity": &reading.Humidity,
		"pressure": &reading.Pressure,
	} {
		if c.IsSet(flag) {
			value := c.Float64(flag)
			*field = &value
			set = true
		}
	}
	if !set {
		return reading, cli.Exit("provide at least one of --temp, --humidity, --pressure", 1)
	}
	return reading, nil
}

func sensorLogCommand() *cli.Command {
	return &cli.Command{
		Name:  "log",
		Usage: "log one sensor reading",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "temp", Usage: "temperature in Celsius"},
			&cli.Float64Flag{Name: "humidity", Usage: "relative humidity in percent"},
			&cli.Float64Flag{Name: "pressure", Usage: "pressure in hPa"},
		},
		Action: func(c *cli.Context) error {
			reading, err := readingFromFlags(c)
			if err != nil {
				return err
			}
			dash, store, err := openDashboard(c)
			if err != nil {
				return err
			}
			defer store.Close()

			doc, err := dash.LogReading(c.Context, reading)
			if err != nil {
				return err
			}
			fmt.Println("reading logged")
			return printJSON(doc.Stats)
		},
	}
}

func sensorViewCommand() *cli.Command {
	return &cli.Command{
		Name:  "view",
		Usage: "show the current reading, or the last N with --history",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "history", Usage: "show the last N readings"},
		},
		Action: func(c *cli.Context) error {
			dash, store, err := openDashboard(c)
			if err != nil {
				return err
			}
			defer store.Close()

			if n := c.Int("history"); n > 0 {
				history, err := dash.History(c.Context, n)
				if err != nil {
					return err
				}
				return printJSON(history)
			}

			doc, err := dash.Document(c.Context)
			if err != nil {
				return err
			}
			if doc.Current == nil {
				fmt.Println("no readings yet")
				return nil
			}
			return printJSON(doc.Current)
		},
	}
}

func sensorStatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "show aggregate statistics over the stored history",
		Action: func(c *cli.Context) error {
			dash, store, err := openDashboard(c)
			if err != nil {
				return err
			}
			defer store.Close()

			fieldStats, err := dash.Stats(c.Context)
			if err != nil {
				return err
			}
			if len(fieldStats) == 0 {
				fmt.Println("no data yet")
				return nil
			}
			return printJSON(fieldStats)
		},
	}
}

func sensorMonitorCommand() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "periodically run a sensor command and log its output",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "command",
				Usage:    "command whose stdout is a JSON reading",
				Required: true,
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "time between readings",
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

			// The monitor is the only writer for this token, so a
			// write-through cache saves the fetch on every cycle.
			cached, err := storage.NewCachedStore(store)
			if err != nil {
				store.Close()
				return err
			}
			defer cached.Close()

			dash := track.NewSensorDashboard(cached, token, core.NewSensorConfig())

			ctx, cancel := monitorContext()
			defer cancel()

			interval := c.Duration("interval")
			fmt.Printf("logging readings every %s, interrupt to stop\n", interval)

			source := track.NewCommandSource(c.String("command"))
			session := dash.Monitor(ctx, source, interval,
				func(doc *document.SensorDocument, err error) {
					if err != nil {
						fmt.Printf("[%s] error: %v\n", time.Now().Format("15:04:05"), err)
						return
					}
					fmt.Printf("[%s] logged reading, %d in history\n",
						doc.LastUpdated.Format("15:04:05"), len(doc.History))
				})

			printSessionSummary(session)
			return nil
		},
	}
}
