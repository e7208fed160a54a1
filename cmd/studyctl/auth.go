package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"studycompanion/internal/models"
)

type authFlags struct {
	role     string
	email    string
	password string
	subject  string
}

func (f *authFlags) bind(cmd *cobra.Command, withSubject bool) {
	cmd.Flags().StringVar(&f.role, "role", "student", "student or teacher")
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.password, "password", os.Getenv("STUDY_PASSWORD"), "account password (defaults to $STUDY_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	if withSubject {
		cmd.Flags().StringVar(&f.subject, "subject", "", "subject taught (teachers only)")
	}
}

func (f *authFlags) validate() error {
	if f.password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

func (a *app) loginCmd() *cobra.Command {
	var f authFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			role := models.ParseUserType(f.role)
			resp, err := a.api.Login(ctx, role, f.email, f.password)
			if err != nil {
				return err
			}
			u := models.User{Email: f.email, Role: role}
			if resp.User != nil {
				u = *resp.User
				if u.Role == "" {
					u.Role = role
				}
			}
			if err := a.store.SetUser(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", u.Email, u.Role)
			return nil
		},
	}
	f.bind(cmd, false)
	return cmd
}

func (a *app) registerCmd() *cobra.Command {
	var f authFlags
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			resp, err := a.api.Register(ctx, models.ParseUserType(f.role), f.email, f.password, f.subject)
			if err != nil {
				return err
			}
			msg := resp.Message
			if msg == "" {
				msg = "Registration successful"
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	f.bind(cmd, true)
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in user and last upload",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Clear(cmd.Context()); err != nil {
				return err
			}
			if err := a.store.ClearDocument(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and last upload",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", u.Email, u.Role)
			if u.Subject != "" {
				fmt.Fprintf(out, "Subject: %s\n", u.Subject)
			}
			if d := a.store.Document(cmd.Context()); d != nil {
				fmt.Fprintf(out, "Document: %s (session %s)\n", d.Filename, d.SessionID)
			}
			return nil
		},
	}
}
