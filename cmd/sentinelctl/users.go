// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/sentinelguard/internal/audit"
	"github.com/tomtom215/sentinelguard/internal/auth"
	"github.com/tomtom215/sentinelguard/internal/models"
)

func (c *cli) newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage dashboard users",
	}

	var username, password, role string
	createCmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a user",
		Example: `  sentinelctl user create --username alice --password 's3cret!' --role Operator`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if !models.Role(role).Valid() {
				return fmt.Errorf("unknown role %q (want one of %v)", role, models.ValidRoles)
			}

			_, db, err := c.open()
			if err != nil {
				return err
			}
			defer c.close(db, &err)

			user, err := db.CreateUser(cmd.Context(), username, password, models.Role(role))
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			c.record(cmd, audit.EventTypeUserCreated, audit.Target{ID: user.Username, Type: "user"}, "User created with role "+string(user.Role))
			if c.jsonOutput {
				return c.printJSON(user)
			}
			fmt.Fprintf(c.out, "Created user %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}
	createCmd.Flags().StringVar(&username, "username", "", "login name")
	createCmd.Flags().StringVar(&password, "password", "", "plain-text password, stored as a bcrypt hash")
	createCmd.Flags().StringVar(&role, "role", string(models.RoleOperator), "Operator, Supervisor or Viewer")
	_ = createCmd.MarkFlagRequired("username")
	_ = createCmd.MarkFlagRequired("password")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			_, db, err := c.open()
			if err != nil {
				return err
			}
			defer c.close(db, &err)

			users, err := db.ListUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}
			if c.jsonOutput {
				return c.printJSON(users)
			}

			w := tabwriter.NewWriter(c.out, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "USERNAME\tROLE\tLAST LOGIN")
			for _, u := range users {
				last := "-"
				if u.LastLogin != nil {
					last = u.LastLogin.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username, u.Role, last)
			}
			return w.Flush()
		},
	}

	userCmd.AddCommand(createCmd, listCmd)
	return userCmd
}

func (c *cli) newTokenCmd() *cobra.Command {
	var username string
	var ttl time.Duration

	tokenCmd := &cobra.Command{
		Use:     "token",
		Short:   "Print a bearer token for an existing user",
		Example: `  curl -H "Authorization: Bearer $(sentinelctl token --username alice)" localhost:8000/api/auth/me`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, db, err := c.open()
			if err != nil {
				return err
			}
			defer c.close(db, &err)

			user, err := db.FindUser(cmd.Context(), username)
			if err != nil {
				return fmt.Errorf("look up user: %w", err)
			}
			if user == nil {
				return errors.New(auth.MsgUserNotFound)
			}

			jwtManager, err := auth.NewJWTManager(&cfg.Security)
			if err != nil {
				return err
			}
			token, err := jwtManager.IssueToken(user.Username, string(user.Role), ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}

			if c.jsonOutput {
				return c.printJSON(auth.LoginResult{AccessToken: token, TokenType: "bearer", User: user})
			}
			fmt.Fprintln(c.out, token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&username, "username", "", "user to issue the token for")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: security.session_timeout)")
	_ = tokenCmd.MarkFlagRequired("username")
	return tokenCmd
}
