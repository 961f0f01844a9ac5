package server

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagChainID = "chain-id"
	flagGenesis = "genesis"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd writes a default config.toml, unless one exists, and sets the
// app_state of the genesis file. An existing tendermint genesis file is
// updated in place, otherwise a minimal one is created.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var chainID, genFile string
	initFlags := flag.NewFlagSet("init", flag.ExitOnError)
	initFlags.StringVar(&chainID, flagChainID, "escrow-local", "chain id of a newly created genesis")
	initFlags.StringVar(&genFile, flagGenesis, filepath.Join(home, "config", "genesis.json"), "genesis file to update")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if !ledger.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id: %s", chainID)
	}

	if err := os.MkdirAll(home, 0700); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if fileExists(filepath.Join(home, ConfigFile)) {
		logger.Info("Found config file", "path", filepath.Join(home, ConfigFile))
	} else {
		if err := WriteConfig(home, DefaultConfig()); err != nil {
			return err
		}
		logger.Info("Generated config file", "path", filepath.Join(home, ConfigFile))
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return err
	}
	if !fileExists(genFile) {
		logger.Info("Generated genesis file", "path", genFile)
		return writeGenesis(genFile, GenesisDoc{}, chainID, options)
	}
	logger.Info("Found genesis file", "path", genFile)
	return addGenesisOptions(genFile, options)
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "%s: %s", filename, err)
	}
	return writeGenesis(filename, doc, "", options)
}

func writeGenesis(filename string, doc GenesisDoc, chainID string, options json.RawMessage) error {
	if chainID != "" {
		raw, err := json.Marshal(chainID)
		if err != nil {
			return errors.Wrap(errors.ErrInvalidInput, err.Error())
		}
		doc["chain_id"] = raw
	}
	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := os.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}
