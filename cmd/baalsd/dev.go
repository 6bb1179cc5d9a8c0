package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baals/baals-go/metrics"
	"github.com/urfave/cli/v2"
)

var devCommand = &cli.Command{
	Name:  "dev",
	Usage: "local development helpers",
	Subcommands: []*cli.Command{
		{
			Name:  "start",
			Usage: "initialize the chain at --data-dir and idle until interrupted",
			Flags: []cli.Flag{dataDirFlag, authorityFlag, keyFileFlag},
			Action: func(ctx *cli.Context) error {
				rt, err := buildRuntime(ctx)
				if err != nil {
					return err
				}
				state := rt.GetChainState()
				fmt.Println("Chain initialized. Latest index:", state.LatestBlockIndex)
				fmt.Println("Press Ctrl+C to exit.")

				ticker := time.NewTicker(10 * time.Second)
				defer ticker.Stop()
				sig := make(chan os.Signal, 1)
				signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
				for {
					select {
					case <-ticker.C:
						metrics.Default.SampleProcessCPU()
					case <-sig:
						return nil
					}
				}
			},
		},
		{
			Name:  "chain-state",
			Usage: "print the current chain state",
			Flags: []cli.Flag{dataDirFlag, authorityFlag},
			Action: func(ctx *cli.Context) error {
				rt, err := buildRuntime(ctx)
				if err != nil {
					return err
				}
				state := rt.GetChainState()
				metrics.Default.SampleProcessCPU()
				snap := metrics.Default.Snapshot()
				fmt.Println("LatestBlockHash:", state.LatestBlockHash.String())
				fmt.Println("LatestBlockIndex:", state.LatestBlockIndex)
				fmt.Println("AccountsRootHash:", state.AccountsRootHash.String())
				fmt.Println("TotalSupply:", state.TotalSupply)
				fmt.Println("ProcessCPUMs:", snap.ProcessCPUMs)
				return nil
			},
		},
	},
}
