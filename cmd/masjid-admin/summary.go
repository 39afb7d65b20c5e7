package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"masjid/internal/core"
	"masjid/internal/services"
)

func summaryCmd(a *app) *cobra.Command {
	var (
		tahun  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "ringkasan",
		Short: "Print income, expenses and balance per month for a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.openBackend(cmd)
			if err != nil {
				return err
			}
			s, err := services.NewSummaryService(b.Store).YearSummary(cmd.Context(), tahun)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			return printSummary(cmd, s)
		},
	}

	cmd.Flags().IntVar(&tahun, "tahun", 0, "year to summarize")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output as JSON")
	_ = cmd.MarkFlagRequired("tahun")

	return cmd
}

func printSummary(cmd *cobra.Command, s core.YearSummary) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Bulan\tPemasukan\tPengeluaran\tSaldo\t\n")
	for _, m := range s.PerBulan {
		key, _ := core.MonthNumberToKey(m.Month)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", key,
			core.FormatRupiah(m.Pemasukan),
			core.FormatRupiah(m.Pengeluaran),
			core.FormatRupiah(m.Saldo()))
	}
	fmt.Fprintf(w, "total\t%s\t%s\t%s\t\n",
		core.FormatRupiah(s.Pemasukan()),
		core.FormatRupiah(s.Pengeluaran),
		core.FormatRupiah(s.Saldo()))
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Donatur %s, kotak amal %s\n",
		core.FormatRupiah(s.Donatur), core.FormatRupiah(s.KotakAmal))
	return nil
}
