package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/framework-learner/penrose/internal/corpus"
	"github.com/framework-learner/penrose/internal/errors"
	"github.com/framework-learner/penrose/internal/logger"
)

func newCorpusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Inspect recorded batches",
		Long: `Inspect the batches recorded with --corpus.

Every run with --corpus FILE stores the generated programs, the seed and
the options in a bbolt file so a batch can be looked up or reproduced.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recorded batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openCorpus()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no batches recorded")
				return nil
			}

			data := pterm.TableData{{"ID", "Created", "Domain", "Seed", "Programs", "Size", "Status"}}
			for _, r := range records {
				data = append(data, []string{
					r.ID,
					humanize.Time(r.CreatedAt),
					r.Domain,
					strconv.FormatUint(r.Seed, 10),
					strconv.Itoa(len(r.Programs)),
					humanize.Bytes(recordSize(r)),
					status(r),
				})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Wrap(err, "failed to render table")
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Print a recorded batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openCorpus()
			if err != nil {
				return err
			}
			defer store.Close()

			r, err := store.Get(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "-- batch %s\n", r.ID)
			fmt.Fprintf(out, "-- created %s (%s)\n", r.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(r.CreatedAt))
			fmt.Fprintf(out, "-- domain %s\n", r.Domain)
			fmt.Fprintf(out, "-- seed %d, policy %s, type option %s, length [%d, %d]\n",
				r.Seed, r.Policy, r.TypeOption, r.MinLength, r.MaxLength)
			if r.Error != "" {
				fmt.Fprintf(out, "-- stopped early: %s\n", r.Error)
			}
			for i, src := range r.Programs {
				fmt.Fprintf(out, "\n-- program %d\n%s", i, src)
			}
			return nil
		},
	})

	return cmd
}

func (a *app) openCorpus() (*corpus.Store, error) {
	if a.cfg.Corpus.Path == "" {
		return nil, errors.WithHint(errors.New("no corpus file given"), "pass --corpus FILE or set corpus.path")
	}
	return corpus.Open(a.cfg.Corpus.Path, logger.ComponentLogger("corpus"))
}

func recordSize(r corpus.Record) uint64 {
	var n uint64
	for _, src := range r.Programs {
		n += uint64(len(src))
	}
	return n
}

func status(r corpus.Record) string {
	if r.Error != "" {
		return "partial"
	}
	return "ok"
}
