// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger in a context.Context.
//
// The default logger writes human-readable lines to stderr so that the
// final report on stdout stays clean. Its level comes from XTASK_LOG_LEVEL
// and can be lowered at runtime with SetLevel, e.g. for a --verbose flag.
package ctxlog
