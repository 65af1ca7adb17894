// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workspace describes the crates of the workspace, the feature flags each
// of them needs for a given backend, and the example programs available to run.
package workspace
