// This program is a wallet for writing, voting on, and tipping notes.
package main

import "github.com/ardanlabs/notechain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
