package main

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/escrow"
)

// AddressesCmd prints the escrow addresses of a maker for a range of
// nonces. Derivation is deterministic, so addresses can be referenced in a
// genesis file before the escrow exists. With -mint the vault holding that
// asset is printed as well.
func AddressesCmd(out io.Writer, args []string) error {
	fl := flag.NewFlagSet("addresses", flag.ContinueOnError)
	offsetFl := fl.Uint64("offset", 0, "First nonce to print.")
	limitFl := fl.Int("limit", 10, "Print N escrow addresses.")
	mintFl := fl.String("mint", "", "Also print the vault address for this mint.")
	hrpFl := fl.String("bech32", "", "Render addresses as bech32 with this human readable part.")
	headerFl := fl.Bool("header", true, "Display header")
	if err := fl.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if fl.NArg() != 1 {
		return errors.Wrap(errors.ErrInvalidInput, "maker address is required")
	}
	if *limitFl < 1 {
		return errors.Wrap(errors.ErrInvalidInput, "limit must be greater than zero")
	}
	maker, err := ledger.ParseAddress(fl.Arg(0))
	if err != nil {
		return errors.Wrap(err, "maker")
	}
	var mint ledger.Address
	if *mintFl != "" {
		if mint, err = ledger.ParseAddress(*mintFl); err != nil {
			return errors.Wrap(err, "mint")
		}
	}

	render := func(a ledger.Address) (string, error) {
		if *hrpFl == "" {
			return a.String(), nil
		}
		return a.Bech32(*hrpFl)
	}

	w := tabwriter.NewWriter(out, 2, 0, 2, ' ', 0)
	defer w.Flush()

	if *headerFl {
		if mint != nil {
			fmt.Fprintln(w, "nonce\tescrow\tvault")
		} else {
			fmt.Fprintln(w, "nonce\tescrow")
		}
	}
	for i := 0; i < *limitFl; i++ {
		nonce := *offsetFl + uint64(i)
		addr, _, err := escrow.EscrowAddress(maker, nonce)
		if err != nil {
			return err
		}
		line, err := render(addr)
		if err != nil {
			return err
		}
		if mint != nil {
			vault, err := escrow.VaultAddress(addr, mint)
			if err != nil {
				return err
			}
			v, err := render(vault)
			if err != nil {
				return err
			}
			line += "\t" + v
		}
		fmt.Fprintf(w, "%d\t%s\n", nonce, line)
	}
	return nil
}
