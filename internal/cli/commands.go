package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Gunvolt24/tenderstore/internal/app"
	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/storage"
	"github.com/Gunvolt24/tenderstore/internal/storage/modules"
	"github.com/Gunvolt24/tenderstore/pkg/validate"
)

// ExportFile - формат export/import.
type ExportFile struct {
	Snapshots modules.SnapshotMap  `json:"snapshots"`
	Pricing   modules.PricingStore `json:"pricing,omitempty"`
	Projects  []domain.Project     `json:"projects,omitempty"`
	Backups   *domain.BackupExport `json:"backups,omitempty"`
}

// IntegrityLine - строка отчёта integrity.
type IntegrityLine struct {
	TenderID string                 `json:"tenderId"`
	Result   domain.IntegrityResult `json:"result"`
}

func integrityCmd(env Env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "integrity [tenderId...]",
		Short: "Validate stored snapshots (all when no id is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), env, func(st *app.Storage) error {
				ids := args
				if len(ids) == 0 {
					ids = st.Snapshots.TenderIDs(cmd.Context())
					slices.Sort(ids)
				}

				lines := make([]IntegrityLine, 0, len(ids))
				failed := 0
				for _, id := range ids {
					res := st.Snapshots.ValidateIntegrity(cmd.Context(), id)
					if !res.OK {
						failed++
					}
					lines = append(lines, IntegrityLine{TenderID: id, Result: res})
				}

				if asJSON {
					if err := printJSON(cmd.OutOrStdout(), lines); err != nil {
						return err
					}
				} else {
					for _, l := range lines {
						status := "ok"
						if !l.Result.OK {
							status = string(l.Result.Reason)
						}
						fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", l.TenderID, status)
					}
				}
				if failed > 0 {
					return fmt.Errorf("%w: %d of %d snapshots", ErrCheckFailed, failed, len(ids))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func exportCmd(env Env) *cobra.Command {
	var out string
	var all bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export snapshots as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd.Context(), env, func(st *app.Storage) error {
				f := ExportFile{Snapshots: st.Snapshots.Export(cmd.Context())}
				if f.Snapshots == nil {
					f.Snapshots = modules.SnapshotMap{}
				}
				if all {
					f.Pricing = st.Pricing.Export(cmd.Context())
					f.Projects = st.Projects.Export(cmd.Context())
					backups := st.Backups.Export(cmd.Context())
					f.Backups = &backups
				}

				w := cmd.OutOrStdout()
				if out != "" && out != "-" {
					file, err := os.Create(out)
					if err != nil {
						return err
					}
					defer file.Close()
					w = file
				}
				return printJSON(w, f)
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "-", "output file (- for stdout)")
	cmd.Flags().BoolVar(&all, "all", false, "include pricing records, projects and tender backups")
	return cmd
}

func importCmd(env Env) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import an export file",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var in ExportFile
			if err := json.Unmarshal(raw, &in); err != nil {
				return usageError{fmt.Errorf("decode %s: %w", args[0], err)}
			}

			return withStorage(cmd.Context(), env, func(st *app.Storage) error {
				ctx := cmd.Context()
				snaps := in.Snapshots
				if !replace {
					snaps = st.Snapshots.Export(ctx)
					if snaps == nil {
						snaps = modules.SnapshotMap{}
					}
					for id, s := range in.Snapshots {
						snaps[id] = s
					}
				}
				if err := st.Snapshots.Import(ctx, snaps); err != nil {
					return err
				}
				if len(in.Pricing) > 0 {
					if _, err := st.Pricing.Import(ctx, in.Pricing, replace); err != nil {
						return err
					}
				}
				if len(in.Projects) > 0 {
					if _, err := st.Projects.Import(ctx, in.Projects, replace); err != nil {
						return err
					}
				}
				backups := 0
				if in.Backups != nil {
					n, err := st.Backups.Import(ctx, *in.Backups, replace)
					if err != nil {
						return err
					}
					backups = n
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported snapshots=%d pricing=%d projects=%d backups=%d\n",
					len(in.Snapshots), len(in.Pricing), len(in.Projects), backups)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace stored data instead of merging by id")
	return cmd
}

func rebuildCmd(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild TENDER_ID",
		Short: "Recompute a snapshot from the stored pricing record",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), env, func(st *app.Storage) error {
				svc := app.NewService(st, env.Config, env.Log)
				snap, err := svc.RebuildSnapshot(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), snap.Meta)
			})
		},
	}
}

// CleanupReport - отчёт команды cleanup.
type CleanupReport struct {
	Adapter    string                     `json:"adapter"`
	Hydrated   int                        `json:"hydrated"`
	Cleanup    []storage.KeyOutcome       `json:"cleanup"`
	Migrations []modules.MigrationOutcome `json:"migrations"`
}

func cleanupCmd(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Run initialization and print the cleanup and migration report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd.Context(), env, func(st *app.Storage) error {
				return printJSON(cmd.OutOrStdout(), CleanupReport{
					Adapter:    st.Report.Adapter,
					Hydrated:   st.Report.Hydrated,
					Cleanup:    st.Report.Cleanup,
					Migrations: st.Migrations,
				})
			})
		},
	}
}

func statsCmd(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print storage statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd.Context(), env, func(st *app.Storage) error {
				return printJSON(cmd.OutOrStdout(), st.Manager.Stats(cmd.Context()))
			})
		},
	}
}

func validateRequestsCmd(_ Env) *cobra.Command {
	var in, format string
	cmd := &cobra.Command{
		Use:   "validate-requests",
		Short: "Validate pricing authoring requests offline (.json or .jsonl)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := validate.InputFormat(format)
			switch f {
			case validate.FormatAuto, validate.FormatJSON, validate.FormatJSONL:
			default:
				return usageError{fmt.Errorf("unknown format %q", format)}
			}

			path := in
			// stdin вариант: считаем, что jsonl
			if path == "" || path == "-" {
				path = "/dev/stdin"
				if f == validate.FormatAuto {
					f = validate.FormatJSONL
				}
			}

			summary, err := validate.ValidateFile(cmd.Context(), validate.NewPricingValidator(), path, f, cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("%w: %v (%s)", ErrCheckFailed, err, summary)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "validation ok (%s)\n", summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input path (.json or .jsonl); empty reads stdin")
	cmd.Flags().StringVar(&format, "format", "auto", "input format: auto|json|jsonl")
	return cmd
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
