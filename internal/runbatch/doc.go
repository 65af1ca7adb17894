// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch executes external processes and batches of them, serially or in
// parallel, and records every outcome as a Result value.
//
// A failing unit never stops its siblings: batches always wait for every child and
// report the complete tree of results.
package runbatch
