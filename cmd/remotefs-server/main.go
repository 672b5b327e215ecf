package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"

	"remotefs/middleware"
	"remotefs/registry"
	"remotefs/server"
)

func main() {
	args := argparse.NewParser("remotefs-server", "Serves local files to remote clients over TCP")

	bind := args.String("l", "listen", &argparse.Options{Required: false, Help: "Listen on address",
		Default: "0.0.0.0"})
	port := args.Int("p", "port", &argparse.Options{Required: true, Help: "Listening port"})
	advertise := args.String("a", "advertise", &argparse.Options{Required: false,
		Help: "Address to publish in the registry (defaults to listen address)"})
	etcd := args.StringList("r", "registry", &argparse.Options{Required: false,
		Help: "etcd endpoint for service registration (repeatable)"})
	rateLimit := args.Float("", "rate-limit", &argparse.Options{Required: false,
		Help: "Maximum calls per second per connection (0 disables throttling)", Default: 0.0})
	debug := args.Flag("d", "debug", &argparse.Options{Help: "Enable debug logging"})

	err := args.Parse(os.Args)

	if err != nil {
		fmt.Print(args.Usage(err))
		os.Exit(1)
	}

	var logger *zap.Logger
	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	defer logger.Sync()

	bindTo := *bind + ":" + strconv.Itoa(*port)
	advertiseAddr := *advertise
	if advertiseAddr == "" {
		advertiseAddr = bindTo
	}

	var reg registry.Registry
	if len(*etcd) > 0 {
		etcdReg, err := registry.NewEtcdRegistry(*etcd)
		if err != nil {
			logger.Error("connect registry", zap.Error(err))
			os.Exit(1)
		}
		defer etcdReg.Close()
		reg = etcdReg
	}

	svr := server.NewServer(logger)
	svr.Use(middleware.LoggingMiddleware(logger))
	if *rateLimit > 0 {
		svr.Use(middleware.RateLimitMiddleware(*rateLimit, int(*rateLimit)+1))
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		done <- svr.Serve("tcp", bindTo, advertiseAddr, reg)
	}()

	logger.Info("serving", zap.String("addr", bindTo), zap.String("advertise", advertiseAddr))

	select {
	case err := <-done:
		if err != nil {
			logger.Error("serve", zap.Error(err))
			os.Exit(1)
		}
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
		if err := svr.Shutdown(10 * time.Second); err != nil {
			logger.Error("shutdown", zap.Error(err))
			os.Exit(1)
		}
	}
}
