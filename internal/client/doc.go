// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client of the route-keeper API.
//
// Commands:
//
//	version
//	get [-inspect] <id>
//	search [-name <substring>] [-kind <kind>]... [-limit <n>] [-inspect]
//	create <name> <kind>
//
// Results are printed as indented JSON. With -inspect the server's debug
// trace of the request is printed under "_inspect", both for successful
// answers and for errors.
package client
