package server

import (
	"flag"
	"net/http"

	"github.com/iov-one/ledger/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind  = "bind"
	flagDebug = "debug"
)

// parseFlags lets command line flags override the config file.
func parseFlags(conf Config, args []string) (Config, error) {
	startFlags := flag.NewFlagSet("start", flag.ExitOnError)
	startFlags.StringVar(&conf.Bind, flagBind, conf.Bind, "address server listens on")
	startFlags.BoolVar(&conf.Debug, flagDebug, conf.Debug, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return conf, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return conf, nil
}

// AppGenerator lets us lazily initialize app, using the loaded config,
// the logger and the registry metrics are exported through.
type AppGenerator func(home string, conf Config, logger log.Logger, reg prometheus.Registerer) (abci.Application, error)

// StartCmd initializes the application and serves it over an ABCI
// socket until the process is interrupted.
func StartCmd(gen AppGenerator, logger log.Logger, home string, conf Config, args []string) error {
	conf, err := parseFlags(conf, args)
	if err != nil {
		return err
	}
	svr, shutdown, err := startServices(gen, logger, home, conf)
	if err != nil {
		return err
	}

	// Wait forever
	cmn.TrapSignal(logger, shutdown)
	<-svr.Quit()
	return nil
}

// startServices runs the ABCI server and, when configured, the metrics
// endpoint. The returned shutdown function stops both.
func startServices(gen AppGenerator, logger log.Logger, home string, conf Config) (cmn.Service, func(), error) {
	reg := prometheus.NewRegistry()
	app, err := gen(home, conf, logger, reg)
	if err != nil {
		return nil, nil, err
	}

	var metrics *http.Server
	if conf.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metrics = &http.Server{Addr: conf.MetricsAddr, Handler: mux}
		go func() {
			if err := metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server stopped", "err", err)
			}
		}()
		logger.Info("Serving metrics", "addr", conf.MetricsAddr)
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err == nil {
		svr.SetLogger(logger.With("module", "abci-server"))
		err = svr.Start()
	}
	if err != nil {
		if metrics != nil {
			metrics.Close()
		}
		return nil, nil, errors.Wrapf(errors.ErrInvalidState, "starting server: %s", err)
	}

	shutdown := func() {
		if err := svr.Stop(); err != nil {
			logger.Error("Stopping ABCI server", "err", err)
		}
		if metrics != nil {
			metrics.Close()
		}
	}
	return svr, shutdown, nil
}
