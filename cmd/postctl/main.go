// postctl talks to the remote store directly, for checking a deployment
// without the server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	config "github.com/maheshrc27/postbatch/configs"
	"github.com/maheshrc27/postbatch/internal/repository"
	"github.com/urfave/cli/v3"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	cmd := &cli.Command{
		Name:  "postctl",
		Usage: "Inspect the remote post store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "Remote store endpoint",
				Value:   cfg.Store.URL,
				Sources: cli.EnvVars("STORE_URL"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: cfg.Store.Timeout,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "ping",
				Usage: "Check that the store answers",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := client(cmd, cfg).TestConnection(ctx); err != nil {
						return err
					}
					fmt.Println("ok")
					return nil
				},
			},
			{
				Name:  "posts",
				Usage: "List normalized posts, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of posts to print",
						Value: 20,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					posts, err := client(cmd, cfg).ListPosts(ctx)
					if err != nil {
						return err
					}
					if limit := int(cmd.Int("limit")); limit > 0 && len(posts) > limit {
						posts = posts[:limit]
					}
					for _, p := range posts {
						fmt.Printf("%-16s %-20s %-10s %s\n", p.ID, p.ScheduledTime, p.Status, p.Topic)
					}
					return nil
				},
			},
			{
				Name:  "destinations",
				Usage: "List configured destinations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					dests, err := client(cmd, cfg).ListDestinations(ctx)
					if err != nil {
						return err
					}
					for _, d := range dests {
						fmt.Printf("%-20s %-6s %s\n", d.ID, d.Kind, d.Name)
					}
					return nil
				},
			},
			{
				Name:  "config",
				Usage: "Print the remote configuration keys",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					conf, err := client(cmd, cfg).GetConfig(ctx)
					if err != nil {
						return err
					}
					keys := make(map[string]bool, len(conf))
					for k, v := range conf {
						keys[k] = v != ""
					}
					return json.NewEncoder(os.Stdout).Encode(keys)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func client(cmd *cli.Command, cfg *config.Config) repository.StoreClient {
	timeout := cmd.Duration("timeout")
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	dates := repository.NewDateNormalizer(cfg.Location())
	return repository.NewStoreClient(cmd.String("url"), &http.Client{Timeout: timeout}, dates)
}
