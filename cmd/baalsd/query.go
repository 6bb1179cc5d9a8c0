package main

import (
	"encoding/hex"
	"fmt"

	"github.com/baals/baals-go/core/types"
	"github.com/urfave/cli/v2"
)

var (
	heightFlag = &cli.Uint64Flag{Name: "height", Usage: "block height"}
	hashFlag   = &cli.StringFlag{Name: "hash", Usage: "hex-encoded block or transaction hash"}
	addressFlag = &cli.StringFlag{Name: "address", Usage: "hex-encoded wallet public key or contract id"}
	keyHexFlag = &cli.StringFlag{Name: "key-hex", Usage: "hex-encoded contract storage key"}
)

func printBlock(b *types.Block) {
	fmt.Println("Index:", b.Index)
	fmt.Println("Hash:", b.Hash.String())
	fmt.Println("PrevHash:", b.PrevHash.String())
	fmt.Println("Timestamp:", b.Timestamp)
	fmt.Println("Transactions:", len(b.Transactions))
	for _, tx := range b.Transactions {
		fmt.Println(" -", tx.Hash.String())
	}
}

var queryCommand = &cli.Command{
	Name:  "query",
	Usage: "read ledger state",
	Subcommands: []*cli.Command{
		{
			Name:  "block",
			Usage: "look up a block by height or hash",
			Flags: []cli.Flag{dataDirFlag, authorityFlag, heightFlag, hashFlag},
			Action: func(ctx *cli.Context) error {
				rt, err := buildRuntime(ctx)
				if err != nil {
					return err
				}
				if ctx.IsSet(hashFlag.Name) {
					b, err := hex.DecodeString(ctx.String(hashFlag.Name))
					if err != nil || len(b) != 32 {
						return fmt.Errorf("invalid --%s", hashFlag.Name)
					}
					block, err := rt.GetBlockByHash(types.BytesToHash(b))
					if err != nil {
						return err
					}
					printBlock(block)
					return nil
				}
				block, err := rt.GetBlockByHeight(ctx.Uint64(heightFlag.Name))
				if err != nil {
					return err
				}
				printBlock(block)
				return nil
			},
		},
		{
			Name:  "account",
			Usage: "look up an account by address",
			Flags: []cli.Flag{dataDirFlag, authorityFlag, addressFlag},
			Action: func(ctx *cli.Context) error {
				rt, err := buildRuntime(ctx)
				if err != nil {
					return err
				}
				b, err := hex.DecodeString(ctx.String(addressFlag.Name))
				if err != nil || len(b) != 32 {
					return fmt.Errorf("invalid --%s", addressFlag.Name)
				}
				acc, ok, err := rt.GetAccount(types.WalletAddress(b))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("account not found")
					return nil
				}
				fmt.Println("Kind:", acc.Kind)
				fmt.Println("Balance:", acc.Balance)
				fmt.Println("Nonce:", acc.Nonce)
				return nil
			},
		},
		{
			Name:  "storage",
			Usage: "read one contract storage slot",
			Flags: []cli.Flag{dataDirFlag, authorityFlag, contractFlag, keyHexFlag},
			Action: func(ctx *cli.Context) error {
				rt, err := buildRuntime(ctx)
				if err != nil {
					return err
				}
				cidBytes, err := hex.DecodeString(ctx.String(contractFlag.Name))
				if err != nil || len(cidBytes) != 32 {
					return fmt.Errorf("invalid --%s", contractFlag.Name)
				}
				userKey, err := hex.DecodeString(ctx.String(keyHexFlag.Name))
				if err != nil {
					return fmt.Errorf("invalid --%s", keyHexFlag.Name)
				}
				v, ok := rt.ContractStorageRead(types.BytesToHash(cidBytes), userKey)
				if !ok {
					fmt.Println("slot not found")
					return nil
				}
				fmt.Println(hex.EncodeToString(v))
				return nil
			},
		},
		{
			Name:  "contract",
			Usage: "look up a contract's account",
			Flags: []cli.Flag{dataDirFlag, authorityFlag, contractFlag},
			Action: func(ctx *cli.Context) error {
				rt, err := buildRuntime(ctx)
				if err != nil {
					return err
				}
				cidBytes, err := hex.DecodeString(ctx.String(contractFlag.Name))
				if err != nil || len(cidBytes) != 32 {
					return fmt.Errorf("invalid --%s", contractFlag.Name)
				}
				acc, ok, err := rt.GetAccount(types.ContractAddress(types.BytesToHash(cidBytes)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("contract not found")
					return nil
				}
				fmt.Println("CodeHash:", acc.CodeHash.String())
				fmt.Println("Nonce:", acc.Nonce)
				return nil
			},
		},
	},
}
