package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/notechain/business/core/notes"
	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print your account and note addresses",
	Run:   addressRun,
}

func init() {
	rootCmd.AddCommand(addressCmd)
}

func addressRun(cmd *cobra.Command, args []string) {
	privateKey, err := loadPrivateKey()
	if err != nil {
		log.Fatal(err)
	}

	note, bump, err := notes.FindNoteAddress(privateKey.PublicKey())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Account:", privateKey.PublicKey())
	fmt.Printf("Note:    %s (bump %d)\n", note, bump)
}
