package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/notechain/foundation/blockchain/signature"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) {
	privateKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		log.Fatal(err)
	}

	path := getPrivateKeyPath()
	if err := signature.SaveKeyFile(path, privateKey); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Key written to:", path)
	fmt.Println("Account:", privateKey.PublicKey())
}
