// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/modserver/modserver/cmd/modserver"

func main() {
	cmd.Execute()
}
