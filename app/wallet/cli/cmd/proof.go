package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var proofCmd = &cobra.Command{
	Use:   "proof",
	Short: "Verify a transaction is included in a block.",
	Run:   proofRun,
}

var (
	proofBlock     uint64
	proofSignature string
)

func init() {
	rootCmd.AddCommand(proofCmd)
	proofCmd.Flags().Uint64VarP(&proofBlock, "block", "b", 0, "Number of the block holding the transaction.")
	proofCmd.Flags().StringVarP(&proofSignature, "signature", "s", "", "Signature of the transaction.")
	proofCmd.MarkFlagRequired("block")
	proofCmd.MarkFlagRequired("signature")
}

func proofRun(cmd *cobra.Command, args []string) {
	proof, err := newClient(nodeURL()).Proof(proofBlock, proofSignature)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Block:      %d\n", proof.Number)
	fmt.Printf("Trans Root: %s\n", proof.TransRoot)
	fmt.Printf("Executed:   %d\n", proof.Tx.TimeStamp)
	for i, h := range proof.Proof {
		fmt.Printf("Sibling %d:  %s (order %d)\n", i, h, proof.Order[i])
	}
	fmt.Println("Proof verified.")
}
