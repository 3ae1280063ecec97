package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"medication-tracker/internal/domain/doses"
	"medication-tracker/internal/domain/plans"
	"medication-tracker/internal/domain/tracker"
)

func plansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Manage treatment plans",
	}
	cmd.AddCommand(plansListCmd())
	cmd.AddCommand(planWriteCmd("add", "Add a plan from a JSON file (- for stdin)"))
	cmd.AddCommand(planWriteCmd("update", "Replace a plan from a JSON file (- for stdin); its doses are regenerated"))
	cmd.AddCommand(plansDeleteCmd())
	return cmd
}

func plansListCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if date == "" {
				date = a.Tracker.TodayDate()
			}
			items, err := a.Tracker.ListPlans(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No plans.")
				return nil
			}
			for _, p := range items {
				marker := "      "
				if plans.IsActive(p, date) {
					marker = "ACTIVE"
				}
				fmt.Fprintf(out, "%s  %s  %s  from %s for %d day(s)\n", marker, p.ID, p.Name, p.StartDate, p.DurationDays)
				for _, m := range p.Medications {
					fmt.Fprintf(out, "          - %s %s, %dx/day from %s\n", m.Name, m.Dosage, m.TimesPerDay, m.FirstDoseTime)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "reference date YYYY-MM-DD (default today)")
	return cmd
}

func planWriteCmd(op, short string) *cobra.Command {
	return &cobra.Command{
		Use:   op + " <file.json|->",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPlan(cmd, args[0])
			if err != nil {
				return err
			}

			a, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var saved plans.TreatmentPlan
			if op == "add" {
				saved, err = a.Tracker.AddPlan(cmd.Context(), p)
			} else {
				saved, err = a.Tracker.UpdatePlan(cmd.Context(), p)
			}
			if err != nil && !errors.Is(err, tracker.ErrPersistence) {
				return err
			}

			generated, _ := a.Tracker.DosesForPlan(cmd.Context(), saved.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved plan: %s (%d doses)\n", saved.ID, len(generated))
			return err
		},
	}
}

func plansDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <planID>",
		Short: "Delete a plan and its doses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Tracker.DeletePlan(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan: %s\n", args[0])
			return nil
		},
	}
}

func todayCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the doses of a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			v, err := a.Tracker.Today(cmd.Context(), date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d dose(s), %d taken, %d pending\n", v.Date, v.Total, v.TakenCount, v.PendingCount)
			printDoses(out, "Pending", v.Pending)
			printDoses(out, "Taken", v.Taken)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD (default today)")
	return cmd
}

func takeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "take <doseID>",
		Short: "Toggle a dose as taken/not taken",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := a.Tracker.ToggleDoseTaken(cmd.Context(), args[0])
			if err != nil && !errors.Is(err, tracker.ErrPersistence) {
				return err
			}
			state := "not taken"
			if d.Taken {
				state = "taken"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s at %s: %s\n", d.MedicationName, d.Date, d.Time, state)
			return err
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <medication name>",
		Short: "Show reference information about a medication",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprint(cmd.ErrOrStderr(), "Looking up... ")
			info, err := a.Info.Describe(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "failed")
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "done")
			fmt.Fprintln(cmd.OutOrStdout(), info.Description)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API over the same store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.Config.Addr()
			}
			srv := &http.Server{
				Addr:         addr,
				Handler:      a.Router(),
				ReadTimeout:  a.Config.HTTPReadTimeout,
				WriteTimeout: a.Config.HTTPWriteTimeout,
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Starting server on %s\n", addr)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :$PORT)")
	return cmd
}

func readPlan(cmd *cobra.Command, path string) (plans.TreatmentPlan, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return plans.TreatmentPlan{}, err
		}
		defer f.Close()
		r = f
	}

	var p plans.TreatmentPlan
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return plans.TreatmentPlan{}, fmt.Errorf("invalid plan json: %w", err)
	}
	return p, nil
}

func printDoses(out io.Writer, title string, items []doses.Dose) {
	fmt.Fprintf(out, "\n%s:\n", title)
	if len(items) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	for _, d := range items {
		fmt.Fprintf(out, "  %s  %-20s %-10s %s  [%s]\n", d.Time, d.MedicationName, d.Dosage, d.PlanName, d.ID)
	}
}
