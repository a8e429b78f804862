// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/easelstudio/easelboot/cmd/easelboot"

func main() {
	cmd.Execute()
}
