package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"fintrack/internal/client"
	"fintrack/internal/logging"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/viper"
)

func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}

// apiClient returns a client for api.url with a session. A configured token
// is used as is; otherwise api.email and api.password are used to log in.
func apiClient(ctx context.Context) (*client.Client, error) {
	c := client.New(viper.GetString("api.url"),
		client.WithLogger(logging.WithComponent(slog.Default(), logging.ComponentCLI)),
		client.WithOnUnauthorized(func() {
			slog.Warn("API rejected the credentials; set api.token or api.email and api.password")
		}),
	)

	if token := viper.GetString("api.token"); token != "" {
		c.Session().Set(token)
		return c, nil
	}

	email, password := viper.GetString("api.email"), viper.GetString("api.password")
	if email == "" || password == "" {
		return nil, fmt.Errorf("no credentials: set api.token, or api.email and api.password")
	}
	if _, err := c.Login(ctx, email, password); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return c, nil
}
