// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/sentinelguard/internal/audit"
)

func (c *cli) newAuditCmd() *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit trail",
	}

	var filter audit.QueryFilter
	var eventTypes []string
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List audit events, newest first",
		Example: `  sentinelctl audit list --actor alice --type auth.failure --limit 20`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			_, db, err := c.open()
			if err != nil {
				return err
			}
			defer c.close(db, &err)

			for _, t := range eventTypes {
				filter.Types = append(filter.Types, audit.EventType(t))
			}
			events, err := db.AuditStore().Query(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("query audit events: %w", err)
			}
			if c.jsonOutput {
				return c.printJSON(events)
			}

			w := tabwriter.NewWriter(c.out, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TIME\tTYPE\tOUTCOME\tACTOR\tTARGET\tSOURCE")
			for i := range events {
				ev := &events[i]
				target := "-"
				if ev.Target != nil {
					target = ev.Target.ID
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					ev.Timestamp.Format(time.RFC3339),
					ev.Type,
					ev.Outcome,
					ev.Actor.Name,
					target,
					ev.Source.IPAddress,
				)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVar(&filter.ActorName, "actor", "", "only events by this user")
	listCmd.Flags().StringSliceVar(&eventTypes, "type", nil, "only these event types, e.g. auth.failure")
	listCmd.Flags().IntVar(&filter.Limit, "limit", audit.DefaultQueryLimit, "maximum number of events")

	auditCmd.AddCommand(listCmd)
	return auditCmd
}
