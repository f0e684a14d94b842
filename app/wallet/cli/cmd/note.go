package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ardanlabs/notechain/business/core/notes"
	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Write, vote on, and tip notes",
}

var noteCreateCmd = &cobra.Command{
	Use:   "create <content>",
	Short: "Create your note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		send(func(pk solana.PublicKey) (ledger.Instruction, error) {
			return notes.CreateNote(pk, args[0])
		})
	},
}

var noteUpdateCmd = &cobra.Command{
	Use:   "update <content>",
	Short: "Replace the content of your note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		send(func(pk solana.PublicKey) (ledger.Instruction, error) {
			addr, _, err := notes.FindNoteAddress(pk)
			if err != nil {
				return ledger.Instruction{}, err
			}
			return notes.UpdateNote(pk, addr, args[0])
		})
	},
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your note and reclaim its lamports",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		send(func(pk solana.PublicKey) (ledger.Instruction, error) {
			addr, _, err := notes.FindNoteAddress(pk)
			if err != nil {
				return ledger.Instruction{}, err
			}
			return notes.DeleteNote(pk, addr)
		})
	},
}

var noteUpvoteCmd = &cobra.Command{
	Use:   "upvote <author>",
	Short: "Upvote the note written by the author",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		author := mustPublicKey(args[0])
		send(func(pk solana.PublicKey) (ledger.Instruction, error) {
			return notes.UpvoteNote(pk, author)
		})
	},
}

var tipAmount uint64

var noteTipCmd = &cobra.Command{
	Use:   "tip <author>",
	Short: "Tip the author of a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		author := mustPublicKey(args[0])
		send(func(pk solana.PublicKey) (ledger.Instruction, error) {
			return notes.TipNote(pk, author, tipAmount)
		})
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show [author]",
	Short: "Show a note, your own when no author is given",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var author solana.PublicKey
		switch len(args) {
		case 0:
			privateKey, err := loadPrivateKey()
			if err != nil {
				log.Fatal(err)
			}
			author = privateKey.PublicKey()
		default:
			author = mustPublicKey(args[0])
		}

		n, err := newClient(nodeURL()).Note(author)
		if err != nil {
			if errors.Is(err, errNoteNotFound) {
				fmt.Println("No note for", author)
				return
			}
			log.Fatal(err)
		}

		printNote(n)
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every note",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		list, err := newClient(nodeURL()).Notes()
		if err != nil {
			log.Fatal(err)
		}

		for i, n := range list {
			if i > 0 {
				fmt.Println()
			}
			printNote(n)
		}
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteCreateCmd, noteUpdateCmd, noteDeleteCmd, noteUpvoteCmd, noteTipCmd, noteShowCmd, noteListCmd)
	noteTipCmd.Flags().Uint64VarP(&tipAmount, "lamports", "l", 0, "Lamports to tip.")
}

// send builds the instruction for the wallet's key, signs it, and submits
// it to the node.
func send(build func(pk solana.PublicKey) (ledger.Instruction, error)) {
	privateKey, err := loadPrivateKey()
	if err != nil {
		log.Fatal(err)
	}

	signedTx, err := signInstruction(privateKey, uint64(time.Now().UnixNano()), build)
	if err != nil {
		log.Fatal(err)
	}

	receipt, err := newClient(nodeURL()).Submit(signedTx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Signature:", receipt.Signature)
	for _, line := range receipt.Logs {
		fmt.Println("  ", line)
	}
}

func signInstruction(privateKey solana.PrivateKey, nonce uint64, build func(pk solana.PublicKey) (ledger.Instruction, error)) (ledger.SignedTx, error) {
	pk := privateKey.PublicKey()

	ix, err := build(pk)
	if err != nil {
		return ledger.SignedTx{}, err
	}

	return ledger.NewTx(nonce, []solana.PublicKey{pk}, ix).Sign(privateKey)
}

func mustPublicKey(s string) solana.PublicKey {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		log.Fatalf("invalid account %q: %v", s, err)
	}
	return pk
}

func printNote(n note) {
	name := n.AuthorName
	if name == n.Author.String() {
		name = ""
	}

	fmt.Printf("Note:     %s\n", n.Address)
	fmt.Printf("Author:   %s %s\n", n.Author, name)
	fmt.Printf("Upvotes:  %d\n", n.Upvotes)
	fmt.Printf("Tips:     %d\n", n.TipTotal)
	fmt.Printf("Created:  %s\n", time.Unix(n.CreatedAt, 0).UTC().Format(time.RFC3339))
	fmt.Printf("Updated:  %s\n", time.Unix(n.UpdatedAt, 0).UTC().Format(time.RFC3339))
	fmt.Printf("Content:  %s\n", n.Content)
}
