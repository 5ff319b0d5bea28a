// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/sentinelguard/internal/audit"
	"github.com/tomtom215/sentinelguard/internal/models"
	"github.com/tomtom215/sentinelguard/internal/validation"
)

func (c *cli) newDeviceCmd() *cobra.Command {
	deviceCmd := &cobra.Command{
		Use:   "device",
		Short: "Manage perimeter devices",
	}

	var in models.DeviceCreate
	var deviceType, description string
	createCmd := &cobra.Command{
		Use:     "create",
		Short:   "Register a device",
		Example: `  sentinelctl device create --id MAG-010-Z --name "North Fence" --type sensorNode --lat 51.5 --lng -0.09`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			in.Type = models.DeviceType(deviceType)
			if description != "" {
				in.Description = &description
			}
			if verr := validation.ValidateStruct(&in); verr != nil {
				return verr
			}

			_, db, err := c.open()
			if err != nil {
				return err
			}
			defer c.close(db, &err)

			device, err := db.CreateDevice(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("create device: %w", err)
			}
			c.record(cmd, audit.EventTypeDeviceCreated, audit.Target{ID: device.DeviceID, Type: "device"}, "Device registered")
			if c.jsonOutput {
				return c.printJSON(device)
			}
			fmt.Fprintf(c.out, "Registered %s %s at (%g, %g)\n",
				device.Type, device.DeviceID, device.Location.Latitude(), device.Location.Longitude())
			return nil
		},
	}
	createCmd.Flags().StringVar(&in.DeviceID, "id", "", "device id, e.g. MAG-010-Z")
	createCmd.Flags().StringVar(&in.Name, "name", "", "display name")
	createCmd.Flags().StringVar(&deviceType, "type", string(models.DeviceTypeSensorNode), "sensorNode, camera or gateway")
	createCmd.Flags().Float64Var(&in.Latitude, "lat", 0, "latitude in degrees")
	createCmd.Flags().Float64Var(&in.Longitude, "lng", 0, "longitude in degrees")
	createCmd.Flags().StringVar(&description, "description", "", "optional description")
	_ = createCmd.MarkFlagRequired("id")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("lat")
	_ = createCmd.MarkFlagRequired("lng")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all devices",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			_, db, err := c.open()
			if err != nil {
				return err
			}
			defer c.close(db, &err)

			devices, err := db.ListDevices(cmd.Context())
			if err != nil {
				return fmt.Errorf("list devices: %w", err)
			}
			if c.jsonOutput {
				return c.printJSON(devices)
			}

			w := tabwriter.NewWriter(c.out, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tLAT\tLNG")
			fmt.Fprintln(w, "--\t----\t----\t------\t---\t---")
			for _, d := range devices {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%g\n",
					d.DeviceID,
					d.Name,
					d.Type,
					d.Status,
					d.Location.Latitude(),
					d.Location.Longitude(),
				)
			}
			return w.Flush()
		},
	}

	deviceCmd.AddCommand(createCmd, listCmd)
	return deviceCmd
}

func (c *cli) newAlertCmd() *cobra.Command {
	alertCmd := &cobra.Command{
		Use:   "alert",
		Short: "Raise alerts",
	}

	var in models.AlertCreate
	var severity string
	createCmd := &cobra.Command{
		Use:     "create",
		Short:   "Raise an alert",
		Example: `  sentinelctl alert create --device MAG-010-Z --type tamper --message "Enclosure opened" --severity warning`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			in.Severity = models.AlertSeverity(severity)
			if verr := validation.ValidateStruct(&in); verr != nil {
				return verr
			}

			_, db, err := c.open()
			if err != nil {
				return err
			}
			defer c.close(db, &err)

			alert, err := db.CreateAlert(cmd.Context(), in.DeviceID, in.Type, in.Message, in.Severity)
			if err != nil {
				return fmt.Errorf("create alert: %w", err)
			}
			c.record(cmd, audit.EventTypeAlertCreated, audit.Target{ID: alert.AlertID, Type: "alert"}, "Alert raised")
			if c.jsonOutput {
				return c.printJSON(alert)
			}
			fmt.Fprintf(c.out, "Raised %s alert %s for %s\n", alert.Severity, alert.AlertID, alert.DeviceID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&in.DeviceID, "device", "", "device id the alert refers to")
	createCmd.Flags().StringVar(&in.Type, "type", "", "alert type, e.g. voltage_spike")
	createCmd.Flags().StringVar(&in.Message, "message", "", "human-readable message")
	createCmd.Flags().StringVar(&severity, "severity", string(models.SeverityInfo), "critical, warning or info")
	_ = createCmd.MarkFlagRequired("device")
	_ = createCmd.MarkFlagRequired("type")
	_ = createCmd.MarkFlagRequired("message")

	alertCmd.AddCommand(createCmd)
	return alertCmd
}

func (c *cli) newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo operator, devices, images and alert",
		Long: `Insert the demo records. Existing records are left alone, so the
command can be run repeatedly.`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			_, db, err := c.open()
			if err != nil {
				return err
			}
			defer c.close(db, &err)

			res, err := db.SeedMockData(cmd.Context())
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			if res.Total() > 0 {
				c.audit.LogSeed(cmd.Context(), audit.Actor{Name: "sentinelctl", Type: "system"}, audit.Source{IPAddress: "local"}, res)
			}
			if c.jsonOutput {
				return c.printJSON(res)
			}
			fmt.Fprintf(c.out, "Inserted %d users, %d devices, %d images, %d alerts\n",
				res.Users, res.Devices, res.Images, res.Alerts)
			return nil
		},
	}
}
