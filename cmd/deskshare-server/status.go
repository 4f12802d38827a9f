package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/deskshare-go/internal/server/httpserver/handler"
)

// statusTimeout bounds the status request.
const statusTimeout = 5 * time.Second

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the session state of a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Base URL of the running server",
				EnvVars: []string{"DESKSHARE_SERVER"},
				Value:   "http://127.0.0.1:5000",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the raw JSON response",
			},
		},
		Action: func(c *cli.Context) error {
			client := &http.Client{Timeout: statusTimeout}
			status, raw, err := fetchStatus(client, c.String("server"))
			if err != nil {
				return err
			}
			if c.Bool("json") {
				_, err := c.App.Writer.Write(append(raw, '\n'))
				return err
			}
			printStatus(c.App.Writer, status)
			return nil
		},
	}
}

// fetchStatus GETs /status from base.
func fetchStatus(client *http.Client, base string) (*handler.StatusResponse, []byte, error) {
	resp, err := client.Get(strings.TrimRight(base, "/") + "/status")
	if err != nil {
		return nil, nil, fmt.Errorf("request status: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, nil, fmt.Errorf("read status: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("status: server returned %s", resp.Status)
	}

	var status handler.StatusResponse
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, nil, fmt.Errorf("decode status: %w", err)
	}
	return &status, raw, nil
}

func printStatus(w io.Writer, s *handler.StatusResponse) {
	addresses := "-"
	if len(s.AuthorizedAddresses) > 0 {
		addresses = strings.Join(s.AuthorizedAddresses, ", ")
	}
	fmt.Fprintf(w, "Version:         %s\n", s.Version)
	fmt.Fprintf(w, "Token valid:     %t\n", s.TokenValid)
	fmt.Fprintf(w, "Token preview:   %s\n", s.TokenPreview)
	fmt.Fprintf(w, "Session active:  %t\n", s.SessionActive)
	fmt.Fprintf(w, "Connected from:  %s\n", addresses)
	fmt.Fprintf(w, "Monitor:         %d of %d\n", s.CurrentMonitor, s.MonitorCount)
}
