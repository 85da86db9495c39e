// Command aperture-pingpong is a minimal hosting application: it wires a
// portal context at its composition root, opens a bound/connected pair
// through a scoped socket set, and round-trips one envelope.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tel/pipes.aperture/pkg/address"
	"github.com/tel/pipes.aperture/pkg/codec"
	"github.com/tel/pipes.aperture/pkg/config"
	"github.com/tel/pipes.aperture/pkg/observability"
	"github.com/tel/pipes.aperture/pkg/portal"
	"github.com/tel/pipes.aperture/pkg/registry"
	"github.com/tel/pipes.aperture/pkg/transport"
	"github.com/tel/pipes.aperture/pkg/transport/mem"
	"github.com/tel/pipes.aperture/pkg/transport/zmq"
)

type ping struct {
	Seq  int
	Body string
}

func main() {
	cfgPath := flag.String("config", "", "path to YAML config file")
	endpoint := flag.String("endpoint", "pingpong", "in-process endpoint location")
	message := flag.String("message", "hello aperture", "message body to round-trip")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatalf("load config: %v", err)
	}
	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		fatalf("setup logger: %v", err)
	}
	defer logger.Sync()

	var drv transport.Driver
	switch cfg.Transport {
	case "zmq":
		drv = zmq.New()
	case "mem":
		drv = mem.New()
	}
	c := codec.NewRegistry().Get(cfg.Codec)

	ctx, err := portal.NewContext(drv,
		portal.WithIOThreads(cfg.IOThreads),
		portal.WithCodec(c),
		portal.WithLogger(logger),
	)
	if err != nil {
		fatalf("new context: %v", err)
	}
	defer ctx.Shutdown()

	specs := []portal.SocketSpec{
		{Mode: portal.Bind, Label: "server", Pattern: registry.Pair, Address: address.Scheme("in-process", *endpoint)},
		{Mode: portal.Connect, Label: "client", Pattern: registry.Pair, Address: address.Scheme("in-process", *endpoint)},
	}
	err = ctx.WithSockets(specs, func(set *portal.SocketSet) error {
		if err := set.Get("client").Send(ping{Seq: 1, Body: *message}); err != nil {
			return err
		}
		var got ping
		if _, err := set.Get("server").Recv(&got); err != nil {
			return err
		}
		logger.Info("round trip complete",
			zap.Int("seq", got.Seq),
			zap.String("body", got.Body),
			zap.String("driver", drv.Name()),
			zap.String("codec", cfg.Codec))
		return nil
	})
	if err != nil {
		fatalf("ping pong: %v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
