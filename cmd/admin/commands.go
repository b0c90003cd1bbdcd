package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"trivedia/internal/config"
	"trivedia/internal/seed"
	"trivedia/internal/service"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and default pricing plans if missing",
		Long: `Creates an admin account from ADMIN_EMAIL / ADMIN_PASSWORD unless that
email is already registered, and installs the default pricing plans when no
plan exists. Safe to run repeatedly.`,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			s := seed.New(a.user, a.prices, a.plans, a.log)
			res, err := s.Run(cmd.Context(), a.cfg.AdminEmail, a.cfg.AdminPassword)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin created: %t\nplans created: %d\n", res.AdminCreated, res.PlansCreated)
			return nil
		}),
	}
}

func resetAdminPasswordCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "reset-admin-password",
		Short: "Set a user's password, ADMIN_EMAIL / ADMIN_PASSWORD by default",
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if email == "" {
				email = a.cfg.AdminEmail
			}
			if password == "" {
				password = a.cfg.AdminPassword
			}
			if email == "" || password == "" {
				return errors.New("an email and a password are required")
			}
			if err := a.user.ResetPassword(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password reset for %s\n", email)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (default ADMIN_EMAIL)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "New password (default ADMIN_PASSWORD)")
	return cmd
}

func clearPricingCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear-pricing",
		Short: "Delete every pricing plan",
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if !yes {
				return errors.New("refusing to delete all plans without --yes")
			}
			n, err := a.prices.DeleteAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d pricing plans\n", n)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	return cmd
}

func listPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-plans",
		Short: "Print every pricing plan in display order",
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			plans, err := a.prices.ListAll(cmd.Context(), service.PricingQuery{})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ORDER\tNAME\tPRICE\tPOPULAR\tACTIVE\tFEATURES")
			for _, p := range plans {
				fmt.Fprintf(w, "%d\t%s\t%s %s\t%t\t%t\t%d\n",
					p.Order, p.Name, p.Price.StringFixed(2), p.Currency, p.Popular, p.IsActive, len(p.Features))
			}
			return w.Flush()
		}),
	}
}

func listUsersCmd() *cobra.Command {
	var role string
	var limit int
	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "Print user accounts, newest first",
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			res, err := a.user.List(cmd.Context(), service.UserQuery{
				PageQuery: service.PageQuery{Limit: strconv.Itoa(limit)},
				Role:      role,
			})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USERNAME\tEMAIL\tROLE\tACTIVE\tLAST LOGIN")
			for _, u := range res.Items {
				last := "never"
				if u.LastLogin != nil {
					last = u.LastLogin.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", u.Username, u.Email, u.Role, u.IsActive, last)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d users\n", len(res.Items), res.Pagination.Total)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", "Only users with this role")
	cmd.Flags().IntVarP(&limit, "limit", "n", service.MaxPageLimit, "Maximum rows")
	return cmd
}

func envCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Describe the environment variables the services read",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.Usage())
			return nil
		},
	}
}
