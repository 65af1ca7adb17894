// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tasks implements the command families of the tool.
//
// Each family is first planned: the backend is resolved, feature sets are
// computed and every operation is constructed. Construction errors surface
// here, before anything runs. The plan is then executed through the
// dispatcher, either fanned out over its units or one unit after the other.
package tasks
