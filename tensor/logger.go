// Copyright 2026 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"log/slog"

	"github.com/born-ml/vkten/internal/vulkan"
)

// SetLogger configures the logger for the tensor package and its internals.
// By default no log output is produced. Pass nil to restore the silent
// default.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
//
// Log levels used:
//   - [slog.LevelDebug]: lifecycle and recording diagnostics (buffer
//     creation, memory allocation, copies)
//   - [slog.LevelWarn]: destroy-time anomalies
//
// Example:
//
//	tensor.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	vulkan.SetLogger(l)
}

// Logger returns the current logger used by the tensor package.
func Logger() *slog.Logger {
	return vulkan.Logger()
}
