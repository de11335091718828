package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nattsrk/AnurVCardPro/internal/codec"
	"github.com/nattsrk/AnurVCardPro/internal/config"
	"github.com/nattsrk/AnurVCardPro/internal/protocol/ndef"
	"github.com/nattsrk/AnurVCardPro/internal/readlog"
	"github.com/nattsrk/AnurVCardPro/internal/server"
	"github.com/nattsrk/AnurVCardPro/internal/station"
)

var (
	writeDryRun  bool
	logLimit     int
	serveID      string
	initKind     string
	initOverride bool
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read and decode the card",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStation(cmd.Context(), true, func(ctx context.Context, st *station.Station) error {
			view, err := st.ReadCard(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), outputFormat, view, func(w io.Writer) {
				writeCardView(w, view)
			})
		})
	},
}

var writeCmd = &cobra.Command{
	Use:   "write <card-data-file>",
	Short: "Replace the card contents with a card data file (TOML or YAML)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.LoadCardData(args[0])
		if err != nil {
			return err
		}
		contents := data.Contents()

		if writeDryRun {
			records, err := codec.EncodeContents(contents, 0)
			if err != nil {
				return err
			}
			size, err := ndef.EncodedSize(records)
			if err != nil {
				return err
			}
			out := map[string]any{"records": len(records), "bytes": size, "capacity": cfg.TagCapacity}
			return render(cmd.OutOrStdout(), outputFormat, out, func(w io.Writer) {
				fmt.Fprintf(w, "%d records, %d bytes (card holds %d)\n", len(records), size, cfg.TagCapacity)
				writeContents(w, contents)
			})
		}

		return withStation(cmd.Context(), false, func(ctx context.Context, st *station.Station) error {
			res, err := st.WriteCard(ctx, contents)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), outputFormat, res, func(w io.Writer) {
				fmt.Fprintf(w, "wrote %d records (%d bytes) to %s\n", res.Records, res.Bytes, res.CardID)
			})
		})
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Read the card and diff its policies against the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStation(cmd.Context(), true, func(ctx context.Context, st *station.Station) error {
			if _, err := st.ReadCard(ctx); err != nil {
				return err
			}
			report, err := st.Compare(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), outputFormat, report, func(w io.Writer) {
				writeReport(w, report)
			})
		})
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy missing policies between the card and the backend",
}

var syncCardCmd = &cobra.Command{
	Use:   "card",
	Short: "Write backend-only policies onto the card",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStation(cmd.Context(), true, func(ctx context.Context, st *station.Station) error {
			if _, err := st.ReadCard(ctx); err != nil {
				return err
			}
			res, err := st.SyncToCard(ctx)
			if errors.Is(err, station.ErrNothingToSync) {
				fmt.Fprintln(cmd.OutOrStdout(), "card already holds every backend policy")
				return nil
			}
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), outputFormat, res, func(w io.Writer) {
				fmt.Fprintf(w, "added %v to %s (%d records, %d bytes)\n", res.Added, res.CardID, res.Records, res.Bytes)
			})
		})
	},
}

var syncBackendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Create card-only policies on the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStation(cmd.Context(), true, func(ctx context.Context, st *station.Station) error {
			if _, err := st.ReadCard(ctx); err != nil {
				return err
			}
			res, err := st.SyncToBackend(ctx)
			if errors.Is(err, station.ErrNothingToSync) {
				fmt.Fprintln(cmd.OutOrStdout(), "backend already holds every card policy")
				return nil
			}
			if rerr := render(cmd.OutOrStdout(), outputFormat, res, func(w io.Writer) {
				for _, num := range res.Created {
					fmt.Fprintf(w, "created %s\n", num)
				}
				for num, msg := range res.Failed {
					fmt.Fprintf(w, "failed  %s: %s\n", num, msg)
				}
			}); rerr != nil {
				return rerr
			}
			return err
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the station over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStation(cmd.Context(), true, func(ctx context.Context, st *station.Station) error {
			return server.New(serveID, cfg.Addr, st, cfg.CORSOrigins).Serve(ctx)
		})
	},
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List recent card reads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStation(cmd.Context(), true, func(ctx context.Context, st *station.Station) error {
			entries, err := st.Reads(ctx, logLimit)
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []readlog.Entry{}
			}
			return render(cmd.OutOrStdout(), outputFormat, entries, func(w io.Writer) {
				if len(entries) == 0 {
					fmt.Fprintln(w, "no reads logged")
				}
				for _, e := range entries {
					fmt.Fprintf(w, "%s  %-12s user=%d records=%d %v\n",
						e.ReadAt.Format("2006-01-02 15:04:05"), e.CardID, e.UserID, e.RecordCount, e.DataTypes)
				}
			})
		})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage station and card data files",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write a commented template (station, card or card-yaml)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := config.WriteTemplate(path, initKind, initOverride); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s template to %s\n", initKind, path)
		return nil
	},
}

func init() {
	writeCmd.Flags().BoolVar(&writeDryRun, "dry-run", false, "encode and report the size without touching the card")
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", readlog.DefaultLimit, "number of reads to list")
	serveCmd.Flags().StringVar(&serveID, "id", "cardctl", "server id reported by /health and metrics")
	configInitCmd.Flags().StringVar(&initKind, "kind", "station", "template kind: station, card or card-yaml")
	configInitCmd.Flags().BoolVar(&initOverride, "force", false, "overwrite an existing file")
}

func withStation(ctx context.Context, withReadLog bool, fn func(context.Context, *station.Station) error) error {
	rt, err := openRuntime(cfg, withReadLog)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt.station)
}
