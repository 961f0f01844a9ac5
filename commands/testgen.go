package commands

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Example will be written out to a file, .json and .bin
// Filename should have no path and no extension
type Example struct {
	Filename string
	Obj      ledger.Marshaller
}

// TestGenCmd writes the binary and json encodings of every example, so
// clients in other languages can test their encoders against them.
func TestGenCmd(examples []Example, args []string) error {
	outdir := "testdata"
	if len(args) > 0 {
		outdir = args[0]
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	for _, ex := range examples {
		js, err := json.MarshalIndent(ex.Obj, "", "  ")
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "%s: %s", ex.Filename, err)
		}
		if err := os.WriteFile(filepath.Join(outdir, ex.Filename+".json"), js, 0644); err != nil {
			return errors.Wrap(errors.ErrInvalidInput, err.Error())
		}

		bin, err := ex.Obj.Marshal()
		if err != nil {
			return errors.Wrap(err, ex.Filename)
		}
		if err := os.WriteFile(filepath.Join(outdir, ex.Filename+".bin"), bin, 0644); err != nil {
			return errors.Wrap(errors.ErrInvalidInput, err.Error())
		}
	}
	return nil
}
