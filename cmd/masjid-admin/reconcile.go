package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"masjid/internal/core"
	"masjid/internal/services"
)

func reconcileCmd(a *app) *cobra.Command {
	var (
		donorID int64
		tahun   int
		months  []int
		jumlah  string
		mode    string
	)

	cmd := &cobra.Command{
		Use:   "rekonsiliasi",
		Short: "Apply a contribution to a donor's ledger and record it in the audit trail",
		Example: `  masjid-admin rekonsiliasi --donatur 12 --tahun 2024 --bulan 1,2,3 --jumlah Rp50.000
  masjid-admin rekonsiliasi --donatur 12 --tahun 2024 --bulan 6 --jumlah 25000 --mode accumulate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.ParseRupiah(jumlah)
			if err != nil {
				return err
			}
			m, err := core.ParseWriteMode(mode)
			if err != nil {
				return err
			}

			b, err := a.openBackend(cmd)
			if err != nil {
				return err
			}
			ledger := services.NewLedgerService(b.Store, b.Store, nil, a.logger)
			res, err := ledger.Reconcile(cmd.Context(), core.ReconcileRequest{
				DonorID: donorID,
				Tahun:   tahun,
				Months:  months,
				Amount:  amount,
				Mode:    m,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Donatur %d (%s) tahun %d\n", res.Donor.ID, res.Donor.Nama, res.Donor.Tahun)
			for i, key := range core.MonthKeys() {
				fmt.Fprintf(out, "  %-4s %s\n", key, core.FormatRupiah(res.Donor.Bulan[i]))
			}
			fmt.Fprintf(out, "  total %s\n", core.FormatRupiah(res.Donor.Bulan.Total()))
			if res.AuditErr != nil {
				return fmt.Errorf("ledger updated but audit trail failed: %w", res.AuditErr)
			}
			fmt.Fprintf(out, "%d audit record(s) written\n", len(res.Records))
			return nil
		},
	}

	cmd.Flags().Int64Var(&donorID, "donatur", 0, "donor id")
	cmd.Flags().IntVar(&tahun, "tahun", 0, "ledger year")
	cmd.Flags().IntSliceVar(&months, "bulan", nil, "months to write (1-12), comma separated")
	cmd.Flags().StringVar(&jumlah, "jumlah", "", "amount in Rupiah, e.g. 50000 or Rp50.000")
	cmd.Flags().StringVar(&mode, "mode", "skip", "write mode: skip, replace or accumulate")
	_ = cmd.MarkFlagRequired("donatur")
	_ = cmd.MarkFlagRequired("tahun")
	_ = cmd.MarkFlagRequired("bulan")
	_ = cmd.MarkFlagRequired("jumlah")

	return cmd
}
