// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides comprehensive benchmarks for PGO profile generation.
// These benchmarks cover all hot paths in the esmload codebase:
//   - Specifier parsing and resolution
//   - Media type classification
//   - TypeScript and JSX transpilation
//   - End-to-end module loading (file and HTTP origins)
//
// To generate a PGO profile, run:
//
//	make pgo-profile       # Full profile (includes network benchmarks)
//	make pgo-profile-short # Short profile (skips network benchmarks)
package benchmark
