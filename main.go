package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"fundwatch/pkg/config"
	"fundwatch/pkg/fund"
	"fundwatch/pkg/models"
	"fundwatch/pkg/notes"
	"fundwatch/pkg/server"
	"fundwatch/pkg/submit"
	"fundwatch/pkg/tui"
	"fundwatch/pkg/watcher"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Version should be set during build
var Version = "dev"

func main() {
	testFlag := flag.Bool("t", false, "Test configuration and exit")
	testLongFlag := flag.Bool("test", false, "Test configuration and exit")
	jsonFlag := flag.Bool("json", false, "Output test results as JSON")
	dryRunFlag := flag.Bool("dry-run", false, "Perform a trial run with no changes made")
	configFlag := flag.String("config", "", "Path to configuration file")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	serverFlag := flag.Bool("server", false, "Run in headless server mode")
	portFlag := flag.Int("port", 8080, "Port for API server")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("fundwatch version %s\n", Version)
		os.Exit(0)
	}

	cfgInput := *configFlag
	if cfgInput == "" && len(flag.Args()) > 0 {
		cfgInput = flag.Args()[0]
	}
	path, err := config.GetConfigPath(cfgInput)
	if err != nil {
		fmt.Printf("Error determining config path: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfigFromFile(path)
	if err != nil {
		fmt.Printf("Error loading config from %s: %v\n", path, err)
		os.Exit(1)
	}

	if *testFlag || *testLongFlag {
		runConfigTest(cfg, path, *jsonFlag, *dryRunFlag)
		return
	}

	if len(cfg.RPCURLs) == 0 {
		fmt.Println("Error: No RPC URLs found in configuration.")
		fmt.Printf("Please create a config file at %s with 'rpc_urls'.\n", path)
		os.Exit(1)
	}

	client := fund.NewClient(cfg)
	if err := client.Initialize(context.Background()); err != nil {
		fmt.Printf("Error connecting to fund contracts: %v\n", err)
		os.Exit(1)
	}

	interval := time.Duration(cfg.PollIntervalMs) * time.Millisecond
	w := watcher.NewWatcher(client, interval)
	go w.Start(context.Background())

	store := notes.NewStore(cfg.NotesDir)
	srv := server.NewServer(w, store)
	go func() {
		if err := srv.Start(*portFlag); err != nil {
			fmt.Printf("Server error: %v\n", err)
		}
	}()

	var notesClient *notes.Client
	if cfg.NotesAPIURL != "" {
		notesClient = notes.NewClient(cfg.NotesAPIURL)
	} else {
		notesClient = notes.NewClient(fmt.Sprintf("http://localhost:%d", *portFlag))
	}

	submitter := submit.NewSubmitter(client, notesClient, cfg)

	if *serverFlag {
		fmt.Printf("Running in server mode on port %d...\n", *portFlag)
		select {} // Keep alive
	}

	tui.Start(w, client, submitter, notesClient, cfg, path, Version)
}

func runConfigTest(cfg config.Config, path string, jsonOut, dryRun bool) {
	var report models.TestReport
	report.ConfigPath = path
	report.ValidStructure = true
	report.DryRun = dryRun

	if !jsonOut {
		fmt.Printf("Testing configuration at: %s\n", path)
	}

	if len(cfg.RPCURLs) == 0 {
		report.ValidStructure = false
		report.StructureErrors = append(report.StructureErrors, "No RPC URLs found in configuration.")
	}
	if strings.TrimSpace(cfg.FundTokenAddress) == "" {
		report.ValidStructure = false
		report.StructureErrors = append(report.StructureErrors, "No fund token address configured.")
	}
	if strings.TrimSpace(cfg.FundControllerAddress) == "" {
		report.ValidStructure = false
		report.StructureErrors = append(report.StructureErrors, "No fund controller address configured.")
	}
	for i, t := range cfg.Tokens {
		if strings.TrimSpace(t.Address) == "" {
			msg := fmt.Sprintf("Token at index %d has no address.", i)
			report.StructureErrors = append(report.StructureErrors, msg)
			report.ValidStructure = false
		}
	}

	if !report.ValidStructure {
		if jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(report)
		} else {
			for _, msg := range report.StructureErrors {
				fmt.Printf("Error: %s\n", msg)
			}
		}
		os.Exit(1)
	}

	for _, rpc := range cfg.RPCURLs {
		result := models.RPCResult{URL: rpc}
		if !jsonOut {
			fmt.Printf("  RPC: %s ... ", rpc)
		}
		client, err := ethclient.Dial(rpc)
		if err != nil {
			result.Status = "error"
			result.Error = err.Error()
			if !jsonOut {
				fmt.Printf("Failed: %v\n", err)
			}
			report.RPCs = append(report.RPCs, result)
			continue
		}
		id, err := client.ChainID(context.Background())
		if err != nil {
			result.Status = "error"
			result.Error = fmt.Sprintf("Failed to get ChainID: %v", err)
			if !jsonOut {
				fmt.Printf("Failed to get ChainID: %v\n", err)
			}
		} else {
			result.Status = "ok"
			if !jsonOut {
				fmt.Printf("OK (ChainID: %s)\n", id.String())
			}
		}
		client.Close()
		report.RPCs = append(report.RPCs, result)
	}

	// Discover the fund's on-chain asset list and flag anything the
	// config has no metadata for.
	fc := fund.NewClient(cfg)
	if err := fc.Initialize(context.Background()); err != nil {
		if !jsonOut {
			fmt.Printf("Failed to read fund assets: %v\n", err)
		}
	} else {
		bindings := fc.Assets()
		report.AssetCount = len(bindings)
		if !jsonOut {
			fmt.Printf("Fund holds %d asset(s).\n", len(bindings))
		}
		for _, b := range bindings {
			if _, ok := cfg.TokenByAddress(b.Asset); !ok {
				report.UnknownAssets = append(report.UnknownAssets, b.Asset)
				if !jsonOut {
					fmt.Printf("  WARNING: no token metadata for %s\n", b.Asset)
				}
			}
		}
		if len(report.UnknownAssets) > 0 && !dryRun {
			for _, addr := range report.UnknownAssets {
				cfg.Tokens = append(cfg.Tokens, config.TokenConfig{Address: addr})
			}
			if err := config.SaveConfig(cfg, path); err != nil {
				if !jsonOut {
					fmt.Printf("Failed to save config: %v\n", err)
				}
			} else if !jsonOut {
				fmt.Println("Configuration updated with discovered assets.")
			}
		} else if len(report.UnknownAssets) > 0 && !jsonOut {
			fmt.Println("Dry run enabled: Configuration NOT saved.")
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	}
}
