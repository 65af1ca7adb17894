// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package dispatch turns operations into toolchain invocations and runs them.
//
// Render is a pure function of the operation and the workspace layout.
// Dispatcher.Execute runs the rendered invocation to completion and, for
// emulator runs, checks the captured output against the example's baseline.
package dispatch
