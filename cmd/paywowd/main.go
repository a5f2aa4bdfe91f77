package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"paywow/config"
	"paywow/core"
	"paywow/core/clock"
	"paywow/core/state"
	"paywow/crypto"
	"paywow/observability/logging"
	"paywow/rpc"
	"paywow/storage"
)

// genesisMarkerKey guards against re-applying balance allocations on restart.
var genesisMarkerKey = []byte("paywow:genesis-applied")

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup("paywowd", cfg.Environment)

	var db storage.Database
	if strings.TrimSpace(cfg.DataDir) == "" {
		logger.Warn("no DataDir configured, using in-memory state")
		db = storage.NewMemDB()
	} else {
		path := filepath.Join(cfg.DataDir, "paywow.db")
		ldb, err := storage.NewLevelDB(path)
		if err != nil {
			logger.Error("failed to open database", "path", path, "error", err)
			os.Exit(1)
		}
		defer ldb.Close()
		db = ldb
	}

	owner, err := cfg.OwnerAddress()
	if err != nil {
		logger.Error("invalid owner address", "error", err)
		os.Exit(1)
	}

	manager := state.NewManager(db)
	node, err := core.NewNode(core.Params{
		State:         manager,
		Clock:         clock.NewTimed(time.Unix(0, 0)),
		Owner:         owner,
		Asset:         cfg.PaymentAsset,
		PlatformBps:   cfg.PlatformFeeBps,
		DisputeWindow: cfg.DisputeWindow,
		EventCap:      cfg.EventCap,
	})
	if err != nil {
		logger.Error("failed to initialise node", "error", err)
		os.Exit(1)
	}

	if err := applyGenesis(db, node, cfg.Genesis); err != nil {
		logger.Error("failed to apply genesis allocations", "error", err)
		os.Exit(1)
	}

	logger.Info("node initialised",
		"network", cfg.NetworkName,
		"asset", cfg.PaymentAsset,
		"platformFeeBps", cfg.PlatformFeeBps,
		"disputeWindow", cfg.DisputeWindow,
	)

	server := rpc.NewServer(node, config.RPCToken(), logger)
	if err := server.Start(cfg.ListenAddress); err != nil {
		logger.Error("RPC server stopped", "error", err)
		os.Exit(1)
	}
}

// applyGenesis seeds the configured balances exactly once per database.
func applyGenesis(db storage.Database, node *core.Node, allocs []config.GenesisAlloc) error {
	if len(allocs) == 0 {
		return nil
	}
	applied, err := db.Has(genesisMarkerKey)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	for _, alloc := range allocs {
		decoded, err := crypto.DecodeAddress(alloc.Address)
		if err != nil {
			return fmt.Errorf("genesis address %q: %w", alloc.Address, err)
		}
		amount, ok := new(big.Int).SetString(strings.TrimSpace(alloc.Amount), 10)
		if !ok || amount.Sign() <= 0 {
			return fmt.Errorf("genesis amount %q must be a positive integer", alloc.Amount)
		}
		var addr [20]byte
		copy(addr[:], decoded.Bytes())
		if err := node.Mint(addr, amount); err != nil {
			return err
		}
	}
	return db.Put(genesisMarkerKey, []byte{1})
}
