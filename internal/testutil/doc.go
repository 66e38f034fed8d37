// SPDX-License-Identifier: MPL-2.0

// Package testutil carries the small helpers the test suites share:
// working-directory and environment pinning with restore functions, server
// teardown via DeferStop, and the cross-package semaphore that keeps
// container-backed integration tests from exhausting the Docker host.
package testutil
