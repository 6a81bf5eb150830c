package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	triggerhttp "github.com/GoSim-25-26J-441/build-trigger/internal/trigger/http"
)

var CLI struct {
	Verbose bool `short:"v" help:"Enable verbose logging"`

	Build struct {
		Endpoint string        `help:"Full URL of the triggerBuild endpoint" default:"http://localhost:8080/api/v1/triggerBuild" env:"TRIGGER_ENDPOINT"`
		Token    string        `help:"Firebase ID token of the caller" env:"FIREBASE_ID_TOKEN"`
		Project  string        `short:"p" help:"Project ID to build" required:""`
		Timeout  time.Duration `help:"Request timeout" default:"30s"`
	} `cmd:"" help:"Ask the build trigger service to start a build for a project"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("triggerctl"),
		kong.Description("Operator client for the build trigger service"))

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	switch ctx.Command() {
	case "build":
		if err := runBuild(); err != nil {
			var callErr *triggerhttp.CallError
			if errors.As(err, &callErr) {
				fmt.Fprintf(os.Stderr, "%s: %s\n", callErr.Status, callErr.Message)
			} else {
				slog.Error("Build request failed", "error", err)
			}
			os.Exit(1)
		}
	default:
		slog.Error("Unknown command", "command", ctx.Command())
		os.Exit(1)
	}
}

func runBuild() error {
	slog.Debug("Calling trigger endpoint", "endpoint", CLI.Build.Endpoint, "project", CLI.Build.Project)

	client := triggerhttp.NewClient(CLI.Build.Endpoint, CLI.Build.Timeout)
	res, err := client.TriggerBuild(context.Background(), CLI.Build.Token, CLI.Build.Project)
	if err != nil {
		return err
	}
	fmt.Println(res.Message)
	return nil
}
