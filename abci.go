package ledger

import (
	"github.com/iov-one/ledger/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// DeliverOrError returns the DeliverTx response for the result, or for
// err when it is set.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError returns the CheckTx response for the result, or for err
// when it is set.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// ToABCI converts the result into a DeliverTx response.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// ToABCI converts the result into a CheckTx response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// DeliverTxError reports err with its registered code. Internal errors are
// redacted unless debug is set.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errorInfo("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError reports err with its registered code. Internal errors are
// redacted unless debug is set.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errorInfo("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func errorInfo(phase string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		log = "cannot " + phase + " tx: " + log
	}
	return code, log
}
