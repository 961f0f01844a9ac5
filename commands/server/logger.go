package server

import (
	"io"
	"os"

	"github.com/iov-one/ledger/errors"
	"github.com/tendermint/tendermint/libs/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns the logger described by conf. The returned closer
// releases the log file, if any.
func NewLogger(conf Config) (log.Logger, io.Closer, error) {
	var out io.WriteCloser = nopCloser{os.Stdout}
	if conf.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   conf.LogFile,
			MaxSize:    conf.LogMaxSizeMB,
			MaxBackups: conf.LogMaxFiles,
			Compress:   true,
		}
	}
	logger := log.NewTMLogger(log.NewSyncWriter(out))

	level := conf.LogLevel
	if level == "" {
		level = "info"
	}
	opt, err := log.AllowLevel(level)
	if err != nil {
		out.Close()
		return nil, nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return log.NewFilter(logger, opt), out, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
