// Command collectd-core is the metricd daemon: it parses a configuration
// file, loads the types database, wires the read scheduler to the
// dispatcher and its write sinks, and runs until asked to stop.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"metricd.example.org/api"
	"metricd.example.org/cache"
	"metricd.example.org/config"
	"metricd.example.org/dispatch"
	"metricd.example.org/format"
	"metricd.example.org/network"
	"metricd.example.org/registry"
	"metricd.example.org/rpc"
	"metricd.example.org/scheduler"
	"metricd.example.org/typesdb"
)

// Exit codes, per the CLI contract: 0 normal, 1 config or startup error, 2
// pidfile error.
const (
	exitOK           = 0
	exitStartupError = 1
	exitPidfileError = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("collectd-core", flag.ContinueOnError)
	var (
		configPath = fs.String("C", "", "path to the configuration file")
		testConfig = fs.Bool("t", false, "test the configuration and exit")
		foreground = fs.Bool("f", false, "run in the foreground (the only supported mode)")
		pidFile    = fs.String("P", "", "override the pidfile path set in the configuration")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: collectd-core -C <path> [-t] [-f] [-P <path>]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitStartupError
	}

	if *configPath == "" {
		log.Print("collectd: -C <path> is required")
		fs.Usage()
		return exitStartupError
	}
	if !*foreground {
		log.Print("collectd: backgrounding is not supported, running in the foreground")
	}

	root, err := config.ParseFile(*configPath)
	if err != nil {
		log.Printf("collectd: reading %s: %v", *configPath, err)
		return exitStartupError
	}

	globals, remaining, err := config.ParseGlobals(root, config.DefaultGlobals())
	if err != nil {
		log.Printf("collectd: %v", err)
		return exitStartupError
	}
	if globals.Hostname == "" {
		if h, err := os.Hostname(); err == nil {
			globals.Hostname = h
		}
	}

	dataSets := typesdb.NewRegistry()
	for _, path := range globals.TypesDB {
		if _, err := dataSets.Load(path); err != nil {
			log.Printf("collectd: loading types db %s: %v", path, err)
			return exitStartupError
		}
	}

	reg := registry.NewRegistry()
	c := cache.New()
	d := dispatch.New(globals.Hostname, dataSets, c, reg)

	registerBuiltinPlugins(reg, d)
	loadPlugins(reg, remaining)

	if *testConfig {
		log.Print("collectd: configuration is valid")
		return exitOK
	}

	pidPath := *pidFile
	if pidPath == "" {
		pidPath = globals.PIDFile
	}
	if err := writePidfile(pidPath); err != nil {
		log.Printf("collectd: writing pidfile %s: %v", pidPath, err)
		return exitPidfileError
	}
	defer os.Remove(pidPath)

	sched := scheduler.New(globals.ReadThreads)
	sched.AddAll(reg.Reads())

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Print("collectd: shutting down")
		cancel()
	}()

	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	log.Printf("collectd: running with %d read callback(s), %d write callback(s)", len(reg.Reads()), len(reg.Writers()))
	<-done
	sched.Stop(time.Duration(globals.Timeout) * time.Second)

	if err := reg.ShutdownAll(); err != nil {
		log.Printf("collectd: shutdown: %v", err)
	}

	return exitOK
}

// loadPlugins dispatches each top-level config.Block against reg's config
// tables, following the documented contract: a <Plugin name> block with a
// registered complex-config callback is passed whole; one with only a
// simple-config callback is split into (key, value) calls, one per child;
// an unrecognized plugin name, or any other unrecognized top-level key,
// logs a warning and is skipped rather than aborting startup.
func loadPlugins(reg *registry.Registry, blocks []config.Block) {
	for _, b := range blocks {
		switch b.Key {
		case "Plugin":
			name, err := pluginName(b)
			if err != nil {
				log.Printf("collectd: %v", err)
				continue
			}
			if err := dispatchPluginConfig(reg, name, b); err != nil {
				log.Printf("collectd: Plugin %s: %v", name, err)
			}
		case "LoadPlugin":
			// Dynamic loading of third-party collectors/writers is out of
			// scope; LoadPlugin directives are accepted and ignored so
			// that configuration files shared with the original collectd
			// parse without modification.
			continue
		default:
			log.Printf("collectd: unknown top-level config option %q, ignoring", b.Key)
		}
	}
}

func pluginName(b config.Block) (string, error) {
	if len(b.Values) != 1 {
		return "", fmt.Errorf("Plugin block requires exactly one argument, the plugin name")
	}
	return b.Values[0].String(), nil
}

// pluginArgs strips the "<Plugin name>" tag argument so only the block's
// children are unmarshalled into a plugin-specific config struct.
func pluginArgs(b config.Block) config.Block {
	b.Values = nil
	return b
}

// dispatchPluginConfig routes a <Plugin name> block through the registry's
// config tables per §4.2: complex-config takes precedence over
// simple-config, and a name present in neither table logs a warning but
// does not abort the daemon.
func dispatchPluginConfig(reg *registry.Registry, name string, b config.Block) error {
	if cb, ok := reg.ComplexConfig(name); ok {
		return cb(&b)
	}
	if cb, ok := reg.Config(name); ok {
		for _, child := range pluginArgs(b).Children {
			value := ""
			if len(child.Values) > 0 {
				value = child.Values[0].String()
			}
			if err := cb(child.Key, value); err != nil {
				return fmt.Errorf("%s: %w", child.Key, err)
			}
		}
		return nil
	}
	log.Printf("collectd: plugin %q: no built-in reference implementation, ignoring", name)
	return nil
}

// registerBuiltinPlugins installs the complex-config callbacks for the
// plugins metricd implements as in-process reference sinks and listeners,
// rather than dynamically loaded shared objects (dynamic plugin loading is
// out of scope; see DESIGN.md). Registering them as ordinary
// ComplexConfigCallback entries, rather than special-casing their names in
// the loader, keeps one dispatch path for built-in and (hypothetically)
// externally registered plugins alike.
func registerBuiltinPlugins(reg *registry.Registry, d *dispatch.Dispatcher) {
	reg.RegisterComplexConfig("putval", func(*config.Block) error {
		reg.RegisterWrite("putval", format.NewPutval(os.Stdout), nil)
		return nil
	})
	reg.RegisterComplexConfig("network", func(b *config.Block) error {
		return loadNetworkPlugin(reg, d, *b)
	})
	reg.RegisterComplexConfig("rpc", func(b *config.Block) error {
		return loadRPCPlugin(reg, *b)
	})
}

type networkConfig struct {
	Listen string
	Server string
}

// loadNetworkPlugin wires the binary wire-protocol reference sink
// (Server, a remote metricd to forward dispatched values to) and/or the
// reference listener (Listen, a local address to accept wire-protocol
// packets on and feed into d).
func loadNetworkPlugin(reg *registry.Registry, d *dispatch.Dispatcher, b config.Block) error {
	var cfg networkConfig
	if err := pluginArgs(b).Unmarshal(&cfg); err != nil {
		return err
	}
	if cfg.Server != "" {
		conn, err := network.Dial(cfg.Server)
		if err != nil {
			return fmt.Errorf("dialing %s: %w", cfg.Server, err)
		}
		reg.RegisterWrite("network", api.WriterFunc(func(vl *api.ValueList) error {
			return conn.Dispatch(*vl)
		}), &registry.UserData{Release: func(interface{}) { conn.Close() }})
	}
	if cfg.Listen != "" {
		go func() {
			if err := network.ListenAndDispatch(cfg.Listen, d); err != nil {
				log.Printf("collectd: network listener on %s exited: %v", cfg.Listen, err)
			}
		}()
	}
	return nil
}

type rpcConfig struct {
	Server string
}

func loadRPCPlugin(reg *registry.Registry, b config.Block) error {
	var cfg rpcConfig
	if err := pluginArgs(b).Unmarshal(&cfg); err != nil {
		return err
	}
	if cfg.Server == "" {
		return fmt.Errorf("rpc plugin requires a Server argument")
	}

	conn, err := grpc.Dial(cfg.Server, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dialing %s: %w", cfg.Server, err)
	}

	client := rpc.NewClient(context.Background(), conn)
	reg.RegisterWrite("rpc", client, &registry.UserData{Release: func(interface{}) { conn.Close() }})
	return nil
}

func writePidfile(path string) error {
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644)
}
