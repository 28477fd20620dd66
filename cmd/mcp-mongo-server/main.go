// Command mcp-mongo-server exposes a MongoDB database to AI agents over the
// Model Context Protocol.  It serves the database's collections as resources
// with inferred schemas, a fixed set of query and write tools, and a guided
// collection-analysis prompt.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rusq/osenv/v2"

	"github.com/satyajeetjadhav/mcp-mongo-server/internal/gateway"
	"github.com/satyajeetjadhav/mcp-mongo-server/internal/mcp"
	"github.com/satyajeetjadhav/mcp-mongo-server/internal/mongodb"
)

// mongoURIEnv overrides the positional connection-string argument.
const mongoURIEnv = "MONGODB_URI"

var build = "dev"

// secrets defines the names of the supported secret files that the
// connection string may be loaded from.
var secrets = []string{".env", ".env.txt", "secrets.txt"}

// params is the command line parameters.
type params struct {
	uri          string
	readOnly     bool
	debug        bool
	transport    string
	listenAddr   string
	jsonLog      bool
	verbose      bool
	printVersion bool
}

func main() {
	loadSecrets(secrets)

	p, err := parseCmdLine(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if p.printVersion {
		fmt.Println(build)
		return
	}

	initLog(p.jsonLog, p.verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, p); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, p params) error {
	conn, err := mongodb.Connect(ctx, p.uri, p.readOnly)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(context.Background()); err != nil {
			slog.Warn("failed to close the database connection", "error", err)
		}
	}()
	slog.Info("connected", "database", conn.Name(), "read_only", conn.ReadOnly())

	gw := gateway.New(gateway.Config{
		DB:       conn.Database(),
		ReadOnly: conn.ReadOnly(),
		Debug:    p.debug,
		Logger:   slog.Default(),
	})

	srv := mcp.New(gw, mcp.WithLogger(slog.Default()))
	if err := srv.RegisterCollections(ctx); err != nil {
		// The template still serves reads; listing is best effort.
		slog.Warn("collection resources unavailable", "error", err)
	}

	switch mcp.Transport(strings.ToLower(p.transport)) {
	case mcp.TransportStdio, "":
		return srv.ServeStdio(ctx)
	case mcp.TransportHTTP:
		return srv.ServeHTTP(ctx, p.listenAddr)
	default:
		return fmt.Errorf("unknown transport %q (want stdio or http)", p.transport)
	}
}

// initLog initialises the default logger.  Logs always go to stderr because
// stdout belongs to the stdio transport.
func initLog(jsonHandler, verbose bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if jsonHandler {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// loadSecrets load secrets from the files in secrets slice.
func loadSecrets(files []string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// parseCmdLine parses the command line arguments.
func parseCmdLine(args []string) (params, error) {
	fs := flag.NewFlagSet("mcp-mongo-server", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			"mcp-mongo-server %s\n"+
				"MCP server exposing a MongoDB database to AI agents.\n\n"+
				"Usage: %s [flags] <connection-uri>\n\n"+
				"The connection URI must name a database, e.g.\n"+
				"  mongodb://localhost:27017/mydb\n"+
				"It may also be given via the %s environment variable or a .env file.\n\n",
			build, filepath.Base(os.Args[0]), mongoURIEnv)
		fs.PrintDefaults()
	}

	var p params
	fs.BoolVar(&p.readOnly, "r", false, "read-only mode: deny update, insert and createIndex, and prefer\nreading from a secondary replica")
	fs.BoolVar(&p.readOnly, "read-only", false, "alias of -r")
	fs.BoolVar(&p.debug, "debug", false, "include extended diagnostics in serverInfo replies")
	fs.StringVar(&p.transport, "transport", "stdio", "MCP transport: \"stdio\" or \"http\"")
	fs.StringVar(&p.listenAddr, "listen", "127.0.0.1:8900", "address to listen on when -transport=http")
	fs.BoolVar(&p.jsonLog, "json-log", false, "log in JSON format")
	fs.BoolVar(&p.verbose, "v", false, "verbose (debug) logging")
	fs.BoolVar(&p.printVersion, "V", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return p, err
	}
	if p.printVersion {
		return p, nil
	}

	p.uri = osenv.Value(mongoURIEnv, "")
	if fs.NArg() >= 1 {
		p.uri = fs.Arg(0)
	}
	if p.uri == "" {
		return p, errors.New("connection string is required (argument or " + mongoURIEnv + ")")
	}
	return p, nil
}
