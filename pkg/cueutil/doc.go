// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE validation utilities.
//
// The package formats CUE validation errors with JSON-path prefixes so
// configuration problems point at the offending field, and guards file
// reads with a size limit before handing bytes to the CUE evaluator.
package cueutil
