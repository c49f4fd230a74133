package commands

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"go_gizmo/internal/dnstypes"
	"go_gizmo/internal/model"
)

const maxValueWidth = 48

func recordsCommand(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List, pull and push DNS records",
	}
	cmd.AddCommand(recordsListCommand(load))
	cmd.AddCommand(recordsPullCommand(load))
	cmd.AddCommand(recordsPushCommand(load))
	return cmd
}

func recordsListCommand(load Loader) *cobra.Command {
	var domainID int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the records the provider serves for a domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, load, func(env *Env) error {
				records, err := env.Service.ListRecords(cmd.Context(), domainID)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No records found.")
					return nil
				}
				printRecords(cmd.OutOrStdout(), records)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&domainID, "domain-id", 0, "local domain id")
	cmd.MarkFlagRequired("domain-id")
	return cmd
}

func recordsPullCommand(load Loader) *cobra.Command {
	var domainID int
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Import the provider's records of a domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, load, func(env *Env) error {
				result, err := env.Service.PullRecords(cmd.Context(), domainID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d, created %d, updated %d, skipped %d.\n",
					result.Fetched, result.Created, result.Updated, result.Skipped)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&domainID, "domain-id", 0, "local domain id")
	cmd.MarkFlagRequired("domain-id")
	return cmd
}

func recordsPushCommand(load Loader) *cobra.Command {
	var (
		recordID int
		op       string
	)
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Create, update or delete a stored record at its provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch model.SyncOperation(op) {
			case model.SyncOperationCreate, model.SyncOperationUpdate, model.SyncOperationDelete:
			default:
				return fmt.Errorf("--op must be create, update or delete, got %q", op)
			}

			return withEnv(cmd, load, func(env *Env) error {
				resp, err := env.Service.Push(cmd.Context(), recordID, model.SyncOperation(op))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s record %d: %d %s\n", op, recordID, resp.StatusCode, resp.Status)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&recordID, "record-id", 0, "local record id")
	cmd.Flags().StringVar(&op, "op", "", "create, update or delete")
	cmd.MarkFlagRequired("record-id")
	cmd.MarkFlagRequired("op")
	return cmd
}

func printRecords(w io.Writer, records []dnstypes.Record) {
	sorted := append([]dnstypes.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Type < sorted[j].Type
	})

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Type", "Value", "TTL", "Prio"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})
	table.SetAutoWrapText(false)
	for _, r := range sorted {
		name := r.Name
		if name == "" {
			name = "@"
		}
		value := r.Value
		if len(value) > maxValueWidth {
			value = value[:maxValueWidth] + "..."
		}
		prio := ""
		if r.Priority != nil {
			prio = strconv.Itoa(*r.Priority)
		}
		table.Append([]string{name, r.Type, value, strconv.Itoa(r.TTL), prio})
	}
	table.Render()
}
