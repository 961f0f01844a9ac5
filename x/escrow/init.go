package escrow

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/accounts"
	"github.com/iov-one/ledger/x/token"
)

const optKey = "escrow"

// GenesisEscrow opens an escrow at startup. The maker associated account
// of MintA must already hold Deposit, it is moved into the vault exactly as
// by an Initialize instruction.
type GenesisEscrow struct {
	Maker          ledger.Address `json:"maker"`
	MintA          ledger.Address `json:"mint_a"`
	MintB          ledger.Address `json:"mint_b"`
	Nonce          uint64         `json:"nonce"`
	AmountExpected coin.Amount    `json:"amount_expected"`
	Deposit        coin.Amount    `json:"deposit"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file. It must run after the accounts and token initializers.
type Initializer struct{}

var _ ledger.Initializer = Initializer{}

// FromGenesis will parse initial escrow info from genesis and save it in the database.
func (Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var escrows []GenesisEscrow
	if err := opts.ReadOptions(optKey, &escrows); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	for i, g := range escrows {
		if err := openGenesisEscrow(db, g); err != nil {
			return errors.Wrapf(err, "escrow %d", i)
		}
	}
	return nil
}

func openGenesisEscrow(db ledger.KVStore, g GenesisEscrow) error {
	if g.Deposit.IsZero() {
		return errors.Wrap(errors.ErrInvalidAmount, "zero deposit")
	}
	addr, bump, err := EscrowAddress(g.Maker, g.Nonce)
	if err != nil {
		return err
	}
	e := &Escrow{
		Maker:          g.Maker,
		MintA:          g.MintA,
		MintB:          g.MintB,
		Nonce:          g.Nonce,
		AmountExpected: g.AmountExpected,
		Bump:           bump,
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := token.GetMint(db, g.MintB); err != nil {
		return errors.Wrap(err, "mint b")
	}
	if _, err := accounts.Create(db, g.Maker, addr, ProgramID, EscrowSize); err != nil {
		return err
	}
	if err := escrowBucket.Insert(db, addr, e); err != nil {
		return err
	}
	vault, err := token.InitAssociatedAccount(db, g.Maker, addr, g.MintA)
	if err != nil {
		return errors.Wrap(err, "vault")
	}
	src, _, err := token.AssociatedAddress(g.Maker, g.MintA)
	if err != nil {
		return err
	}
	return token.Transfer(context.Background(), db, genesisAuthority{g.Maker}, src, vault, g.Deposit)
}

// genesisAuthority speaks for a single address. Genesis carries no
// signatures, so the maker listed in the file is trusted.
type genesisAuthority struct {
	addr ledger.Address
}

func (a genesisAuthority) Authorize(_ context.Context, owner ledger.Address) error {
	if !a.addr.Equals(owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not %s", owner, a.addr)
	}
	return nil
}
