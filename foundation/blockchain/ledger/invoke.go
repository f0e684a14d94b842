package ledger

import (
	"bytes"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// maxCallDepth is the deepest a chain of cross-program invocations can go.
const maxCallDepth = 4

// Program represents the behavior required to be implemented by any on-chain
// program registered with the ledger.
type Program interface {
	ID() solana.PublicKey
	Process(ctx *InvokeContext) error
}

// AccountInfo is an account passed to an instruction. The embedded account
// points into the transaction working set so changes are visible to later
// instructions and are discarded if the transaction fails.
type AccountInfo struct {
	*Account
	Key        solana.PublicKey
	IsSigner   bool
	IsWritable bool
}

// =============================================================================

// InvokeContext provides a program everything it needs to process a single
// instruction.
type InvokeContext struct {
	ProgramID solana.PublicKey
	Data      []byte
	Accounts  []*AccountInfo
	Clock     Clock
	Rent      Rent

	frame *frame
	pre   map[solana.PublicKey]Account
}

// Log records a message in the transaction logs.
func (ctx *InvokeContext) Log(format string, args ...any) {
	ctx.frame.log("Program log: " + fmt.Sprintf(format, args...))
}

// Invoke performs a cross-program invocation using the signer privileges
// of the caller.
func (ctx *InvokeContext) Invoke(ix Instruction) error {
	return ctx.InvokeSigned(ix)
}

// InvokeSigned performs a cross-program invocation. Each set of signer seeds
// derives an address owned by the calling program that is granted signer
// privilege for the call.
func (ctx *InvokeContext) InvokeSigned(ix Instruction, signerSeeds ...[][]byte) error {
	pdas := make(map[solana.PublicKey]bool, len(signerSeeds))
	for _, seeds := range signerSeeds {
		addr, err := solana.CreateProgramAddress(seeds, ctx.ProgramID)
		if err != nil {
			return fmt.Errorf("create program address: %w", err)
		}
		pdas[addr] = true
	}

	signers := make(map[solana.PublicKey]bool)
	for _, meta := range ix.Accounts {
		info := ctx.find(meta.PublicKey)
		if info == nil {
			return fmt.Errorf("account %s: %w", meta.PublicKey, ErrMissingAccount)
		}

		if meta.IsWritable && !info.IsWritable {
			return fmt.Errorf("writable %s: %w", meta.PublicKey, ErrPrivilegeEscalation)
		}

		if meta.IsSigner {
			if !info.IsSigner && !pdas[meta.PublicKey] {
				return fmt.Errorf("signer %s: %w", meta.PublicKey, ErrPrivilegeEscalation)
			}
			signers[meta.PublicKey] = true
		}
	}

	// Changes made by this program up to this point must be valid before
	// handing the accounts to another program.
	if err := ctx.verify(); err != nil {
		return err
	}

	callee := frame{
		ledger:  ctx.frame.ledger,
		ws:      ctx.frame.ws,
		signers: signers,
		clock:   ctx.Clock,
		logs:    ctx.frame.logs,
		depth:   ctx.frame.depth + 1,
	}

	if err := callee.process(ix); err != nil {
		return err
	}

	// Changes made by the callee were verified against the callee.
	ctx.pre = snapshot(ctx.Accounts)

	return nil
}

// find locates the account passed to this instruction by address.
func (ctx *InvokeContext) find(key solana.PublicKey) *AccountInfo {
	for _, info := range ctx.Accounts {
		if info.Key == key {
			return info
		}
	}
	return nil
}

// verify enforces the rules every program must follow when changing the
// accounts passed to it.
func (ctx *InvokeContext) verify() error {
	var preTotal, postTotal uint64

	for _, info := range unique(ctx.Accounts) {
		pre := ctx.pre[info.Key]
		post := *info.Account

		preTotal += pre.Lamports
		postTotal += post.Lamports

		changed := pre.Lamports != post.Lamports || pre.Owner != post.Owner || !bytes.Equal(pre.Data, post.Data)
		if !changed {
			continue
		}

		if !info.IsWritable {
			return fmt.Errorf("account %s: %w", info.Key, ErrReadonlyModified)
		}

		owned := pre.Owner == ctx.ProgramID

		if pre.Owner != post.Owner && !owned {
			return fmt.Errorf("account %s: %w", info.Key, ErrExternalOwnerModified)
		}

		if !bytes.Equal(pre.Data, post.Data) && !owned {
			return fmt.Errorf("account %s: %w", info.Key, ErrExternalDataModified)
		}

		if post.Lamports < pre.Lamports && !owned {
			return fmt.Errorf("account %s: %w", info.Key, ErrExternalLamportSpend)
		}
	}

	if preTotal != postTotal {
		return ErrUnbalancedInstruction
	}

	return nil
}

// =============================================================================

// frame represents one level of program execution inside a transaction.
type frame struct {
	ledger  *Ledger
	ws      map[solana.PublicKey]*Account
	signers map[solana.PublicKey]bool
	clock   Clock
	logs    *[]string
	depth   int
}

// log appends a line to the transaction logs.
func (f *frame) log(s string) {
	*f.logs = append(*f.logs, s)
}

// process executes a single instruction against the working set.
func (f *frame) process(ix Instruction) error {
	if f.depth > maxCallDepth {
		return ErrCallDepth
	}

	prog, exists := f.ledger.programs[ix.ProgramID]
	if !exists {
		return fmt.Errorf("program %s: %w", ix.ProgramID, ErrUnknownProgram)
	}

	infos := make([]*AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		acct, exists := f.ws[meta.PublicKey]
		if !exists {
			return fmt.Errorf("account %s: %w", meta.PublicKey, ErrMissingAccount)
		}

		infos[i] = &AccountInfo{
			Account:    acct,
			Key:        meta.PublicKey,
			IsSigner:   meta.IsSigner && f.signers[meta.PublicKey],
			IsWritable: meta.IsWritable,
		}
	}

	ctx := InvokeContext{
		ProgramID: ix.ProgramID,
		Data:      ix.Data,
		Accounts:  infos,
		Clock:     f.clock,
		Rent:      f.ledger.rent,
		frame:     f,
		pre:       snapshot(infos),
	}

	f.log(fmt.Sprintf("Program %s invoke [%d]", ix.ProgramID, f.depth+1))

	if err := prog.Process(&ctx); err != nil {
		f.log(fmt.Sprintf("Program %s failed: %s", ix.ProgramID, err))
		return err
	}

	if err := ctx.verify(); err != nil {
		f.log(fmt.Sprintf("Program %s failed: %s", ix.ProgramID, err))
		return err
	}

	f.log(fmt.Sprintf("Program %s success", ix.ProgramID))

	return nil
}

// =============================================================================

// snapshot captures a deep copy of the accounts passed to an instruction.
func snapshot(infos []*AccountInfo) map[solana.PublicKey]Account {
	snap := make(map[solana.PublicKey]Account, len(infos))
	for _, info := range infos {
		snap[info.Key] = info.Account.Clone()
	}
	return snap
}

// unique returns the accounts with duplicate addresses removed. When an
// address is passed more than once, it is writable if any use is writable.
func unique(infos []*AccountInfo) []*AccountInfo {
	idx := make(map[solana.PublicKey]int, len(infos))
	var list []*AccountInfo

	for _, info := range infos {
		i, exists := idx[info.Key]
		if !exists {
			idx[info.Key] = len(list)
			cpy := *info
			list = append(list, &cpy)
			continue
		}

		list[i].IsWritable = list[i].IsWritable || info.IsWritable
	}

	return list
}
