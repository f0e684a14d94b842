package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	privateURL string
	token      string
	lamports   uint64
)

var airdropCmd = &cobra.Command{
	Use:   "airdrop",
	Short: "Request lamports from the node's faucet.",
	Run:   airdropRun,
}

func init() {
	rootCmd.AddCommand(airdropCmd)
	airdropCmd.Flags().StringVar(&privateURL, "private-url", "http://localhost:9080", "Url of the node's private api.")
	airdropCmd.Flags().StringVarP(&token, "token", "t", "", "Admin token for the private api.")
	airdropCmd.Flags().Uint64VarP(&lamports, "lamports", "l", 1_000_000_000, "Lamports to request.")
}

func airdropRun(cmd *cobra.Command, args []string) {
	privateKey, err := loadPrivateKey()
	if err != nil {
		log.Fatal(err)
	}

	balance, err := newClient(privateURL).Airdrop(token, privateKey.PublicKey(), lamports)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Balance:", balance)
}
