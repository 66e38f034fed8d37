// SPDX-License-Identifier: MPL-2.0

package main

import (
	cmd "esmload-cli/cmd/esmload"
)

func main() {
	cmd.Execute()
}
