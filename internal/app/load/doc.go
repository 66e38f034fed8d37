// SPDX-License-Identifier: MPL-2.0

// Package load orchestrates the module loading pipeline for the CLI. It
// assembles a loader from the application configuration and exposes the
// resolve, inspect, and load operations the commands are built on. It
// decouples CLI-layer orchestration from the pipeline packages.
package load
