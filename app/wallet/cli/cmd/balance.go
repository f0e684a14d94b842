package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	privateKey, err := loadPrivateKey()
	if err != nil {
		log.Fatal(err)
	}

	account := privateKey.PublicKey()
	fmt.Println("For Account:", account)

	lamports, err := newClient(nodeURL()).Balance(account)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(lamports)
}
