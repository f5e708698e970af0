package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/amaumene/rdstream/internal/constants"
	apperrors "github.com/amaumene/rdstream/internal/errors"
	"github.com/amaumene/rdstream/internal/handlers"
	"github.com/amaumene/rdstream/internal/models"
	"github.com/amaumene/rdstream/internal/services"
	"github.com/amaumene/rdstream/pkg/security"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const readHeaderTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     constants.AppName,
		Short:   "Stream torrents through Real-Debrid",
		Version: constants.AppVersion,
		Long: `rdstream searches a torrent index, hands magnet links to Real-Debrid and
returns a direct streaming URL once the torrent is cached.

Configuration is read from config.yaml (or CONFIG_FILE) and environment
variables such as REALDEBRID_API_TOKEN, SEARCH_URL, POLL_INTERVAL and
MAX_POLL_ATTEMPTS.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newSearchCmd(),
		newStreamCmd(),
		newLibraryCmd(),
		newTokenCmd(),
	)
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{runtimeMetrics: true, store: storeRequired})
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(cmd.Context(), a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	if a.Config.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.Port,
		Handler:           handlers.NewRouter(handlers.New(a.Container, a.Config)),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Infof("[App] starting HTTP server on port %s", a.Config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Infof("[App] shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func newSearchCmd() *cobra.Command {
	var (
		page        int
		showMagnets bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the torrent index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{logOutput: cmd.ErrOrStderr(), store: storeNone})
			if err != nil {
				return err
			}
			defer a.Close()

			query := strings.Join(args, " ")
			results, err := a.Container.Search.Search(cmd.Context(), query, page)
			fallback := false
			if err != nil {
				if !a.Config.DemoFallback || apperrors.KindOf(err) == apperrors.KindInvalidRequest {
					return err
				}
				results, fallback = services.DemoResults(query), true
			}

			printSearchResults(cmd.OutOrStdout(), results, fallback, showMagnets)
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "result page, starting at 1")
	cmd.Flags().BoolVarP(&showMagnets, "magnets", "m", false, "print magnet links")
	return cmd
}

func newStreamCmd() *cobra.Command {
	var (
		title string
		quiet bool
	)
	cmd := &cobra.Command{
		Use:   "stream <magnet>",
		Short: "Resolve a magnet link to a direct streaming URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{logOutput: cmd.ErrOrStderr(), store: storeOptional})
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), a.Config.StreamTimeout)
			defer cancel()

			progress := newPollProgress(cmd.ErrOrStderr(), quiet)
			acq, err := a.Container.Acquisition(progress.Observe)
			if err != nil {
				progress.Finish()
				return err
			}

			url, err := acq.Process(ctx, args[0], title)
			progress.Finish()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "title used in logs")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")
	return cmd
}

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "List the torrents on the Real-Debrid account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{logOutput: cmd.ErrOrStderr(), store: storeOptional})
			if err != nil {
				return err
			}
			defer a.Close()

			lib, err := a.Container.Library()
			if err != nil {
				return err
			}
			items, err := lib.List(cmd.Context())
			fallback := false
			if err != nil {
				if !a.Config.DemoFallback {
					return err
				}
				items, fallback = services.DemoLibrary(), true
			}

			printLibrary(cmd.OutOrStdout(), items, fallback)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a torrent from the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{logOutput: cmd.ErrOrStderr(), store: storeOptional})
			if err != nil {
				return err
			}
			defer a.Close()

			lib, err := a.Container.Library()
			if err != nil {
				return err
			}
			if err := lib.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	})
	return cmd
}

func newTokenCmd() *cobra.Command {
	validator := security.NewTokenValidator()

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored Real-Debrid API token",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <token>",
			Short: "Store the API token in the settings database",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				token := validator.SanitizeToken(args[0])
				if !validator.IsValidRealDebridToken(token) {
					return apperrors.NewInvalidRequestError("API token format is invalid")
				}

				a, err := newApp(appOptions{logOutput: cmd.ErrOrStderr(), store: storeRequired})
				if err != nil {
					return err
				}
				defer a.Close()

				if err := a.DB.SetDebridToken(token); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "stored token %s\n", validator.MaskToken(token))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the stored API token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(appOptions{logOutput: cmd.ErrOrStderr(), store: storeRequired})
				if err != nil {
					return err
				}
				defer a.Close()

				if err := a.DB.ClearDebridToken(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "stored token cleared")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show which API token is in use",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(appOptions{logOutput: cmd.ErrOrStderr(), store: storeRequired})
				if err != nil {
					return err
				}
				defer a.Close()

				token, source, err := a.Container.ResolveToken()
				if err != nil {
					return err
				}
				if token == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "no token configured")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "token %s (from %s)\n", validator.MaskToken(token), source)
				return nil
			},
		},
	)
	return cmd
}

func printSearchResults(out io.Writer, results []models.SearchResult, fallback, showMagnets bool) {
	if fallback {
		fmt.Fprintln(out, "search unavailable, showing demo results")
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "no results")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tSIZE\tSEEDS\tLEECH\tDATE")
	for i, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, r.Name, r.Size, r.Seeds, r.Leech, r.Date)
	}
	tw.Flush()

	if showMagnets {
		for i, r := range results {
			fmt.Fprintf(out, "%d %s\n", i+1, r.Magnet)
		}
	}
}

func printLibrary(out io.Writer, items []models.LibraryItem, fallback bool) {
	if fallback {
		fmt.Fprintln(out, "library unavailable, showing demo items")
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "library is empty")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tQUALITY\tSIZE\tREADY")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n",
			item.ID, item.Title, item.Year, item.Quality, formatSize(item.Size), item.Streamable)
	}
	tw.Flush()
}

func formatSize(bytes int64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	return fmt.Sprintf("%.2f GB", gb)
}
