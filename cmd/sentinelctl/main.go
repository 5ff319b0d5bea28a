// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

// Command sentinelctl administers a SentinelGuard directory offline.
//
// It opens the same BadgerDB directory as the server, so the server must be
// stopped first: Badger holds an exclusive lock on its directory.
//
//	sentinelctl user create --username alice --password s3cret! --role Operator
//	sentinelctl device create --id MAG-010-Z --name "North Fence" --type sensorNode --lat 51.5 --lng -0.09
//	sentinelctl device list --json
//	sentinelctl alert create --device MAG-010-Z --type tamper --message "Enclosure opened" --severity warning
//	sentinelctl seed
//	sentinelctl token --username alice
//	sentinelctl audit list --type auth.failure
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
