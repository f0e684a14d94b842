// This program performs administrative tasks for the notechain node.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/notechain/app/tooling/admin/commands"
	"github.com/ardanlabs/notechain/business/sys/relay"
	"github.com/ardanlabs/notechain/business/web/auth"
	"github.com/ardanlabs/notechain/foundation/blockchain/database"
	"github.com/ardanlabs/notechain/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/notechain/foundation/blockchain/storage/gormdb"
	"github.com/ardanlabs/notechain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

type config struct {
	conf.Version
	Args conf.Args
	Auth struct {
		Secret string        `conf:"default:notechain-development-secret,mask"`
		TTL    time.Duration `conf:"default:24h"`
	}
	Genesis struct {
		Path      string `conf:"default:zblock/genesis.json"`
		FaucetKey string `conf:"default:zblock/accounts/faucet.json"`
		Lamports  uint64 `conf:"default:500000000000000000"`
		ChainID   uint16 `conf:"default:1"`
	}
	State struct {
		Storage string `conf:"default:disk"`
		DBPath  string `conf:"default:zblock/blocks"`
		DSN     string `conf:"mask"`
	}
	Relay struct {
		Addr     string `conf:"default:localhost:6379"`
		Password string `conf:"mask"`
		Channel  string `conf:"default:notechain:events"`
	}
}

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := config{
		Version: conf.Version{
			Build: build,
			Desc:  "notechain admin",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	return processCommands(cfg, log)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(cfg config, log *zap.SugaredLogger) error {
	switch cfg.Args.Num(0) {
	case "token":
		a, err := auth.New(cfg.Auth.Secret, nil)
		if err != nil {
			return err
		}

		subject := cfg.Args.Num(1)
		if subject == "" {
			subject = "admin"
		}

		if err := commands.Token(a, subject, cfg.Auth.TTL); err != nil {
			return fmt.Errorf("generating token: %w", err)
		}

	case "genesis":
		if err := commands.Genesis(cfg.Genesis.Path, cfg.Genesis.FaucetKey, cfg.Genesis.Lamports, cfg.Genesis.ChainID); err != nil {
			return fmt.Errorf("writing genesis: %w", err)
		}

	case "blocks":
		serializer, err := openStorage(cfg.State.Storage, cfg.State.DBPath, cfg.State.DSN)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}

		db := database.New(serializer)
		defer db.Close()

		if err := commands.Blocks(db); err != nil {
			return fmt.Errorf("printing blocks: %w", err)
		}

	case "events":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rly, err := relay.New(ctx, relay.Config{
			Addr:     cfg.Relay.Addr,
			Password: cfg.Relay.Password,
			Channel:  cfg.Relay.Channel,
		}, nil)
		if err != nil {
			return err
		}
		defer rly.Close()

		log.Infow("events", "status", "subscribed", "addr", cfg.Relay.Addr, "channel", cfg.Relay.Channel)

		if err := commands.Events(ctx, rly); err != nil {
			return fmt.Errorf("following events: %w", err)
		}

	default:
		fmt.Println("token [subject]: issue an admin token for the private api")
		fmt.Println("genesis:         write a genesis file funding a faucet key")
		fmt.Println("blocks:          print the stored blocks")
		fmt.Println("events:          follow node events relayed through redis")
		fmt.Println("provide a command to get more help.")
	}

	return nil
}

// openStorage constructs the block serializer for the configured kind.
func openStorage(kind string, dbPath string, dsn string) (database.Serializer, error) {
	switch kind {
	case "disk":
		return disk.New(dbPath)

	case gormdb.DialectSQLite:
		return gormdb.New(gormdb.Config{Dialect: gormdb.DialectSQLite, DSN: dbPath + ".sqlite"})

	case gormdb.DialectMySQL:
		return gormdb.New(gormdb.Config{Dialect: gormdb.DialectMySQL, DSN: dsn})
	}

	return nil, fmt.Errorf("unknown storage kind %q", kind)
}
