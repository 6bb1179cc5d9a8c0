package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/baals/baals-go/core/types"
	"github.com/baals/baals-go/crypto/ed25519"
	"github.com/urfave/cli/v2"
)

var (
	toFlag = &cli.StringFlag{
		Name:  "to",
		Usage: "hex-encoded recipient wallet public key",
	}
	amountFlag = &cli.Uint64Flag{
		Name:  "amount",
		Usage: "transfer amount",
	}
	nonceFlag = &cli.Uint64Flag{
		Name:     "nonce",
		Usage:    "transaction nonce (sender's current stored nonce + 1)",
		Required: true,
	}
	gasLimitFlag = &cli.Uint64Flag{
		Name:  "gas-limit",
		Usage: "gas limit forwarded to the contract engine",
	}
	wasmFileFlag = &cli.StringFlag{
		Name:  "wasm-file",
		Usage: "path to the wasm bytecode to deploy",
	}
	contractFlag = &cli.StringFlag{
		Name:  "contract",
		Usage: "hex-encoded contract id",
	}
	methodFlag = &cli.StringFlag{
		Name:  "method",
		Usage: "contract method name",
	}
	argsHexFlag = &cli.StringFlag{
		Name:  "args-hex",
		Usage: "hex-encoded call arguments",
	}
	dataHexFlag = &cli.StringFlag{
		Name:  "data-hex",
		Usage: "hex-encoded free-form data payload",
	}
)

// signAndSubmit signs tx with signingKey, submits it to r, produces a
// block including it, and prints the resulting block's hash. The CLI
// is a single-shot local collaborator: there is no separate
// long-running daemon to submit against, so every transaction command
// both admits and seals its own block.
func signAndSubmit(ctx *cli.Context, tx *types.Transaction) error {
	keyFile := ctx.String(keyFileFlag.Name)
	if keyFile == "" {
		return fmt.Errorf("--%s is required", keyFileFlag.Name)
	}
	signingKey, err := loadPrivateKeyFile(keyFile)
	if err != nil {
		return err
	}
	tx.Sign(signingKey)

	rt, err := buildRuntime(ctx)
	if err != nil {
		return err
	}
	if err := rt.SubmitTransaction(tx); err != nil {
		return fmt.Errorf("submit transaction: %w", err)
	}
	block, err := rt.ProduceBlock(context.Background())
	if err != nil {
		return fmt.Errorf("produce block: %w", err)
	}
	fmt.Println("Transaction:", tx.Hash.String())
	fmt.Println("Block:", block.Hash.String(), "index", block.Index)
	return nil
}

// mustPublic panics if priv cannot yield an ed25519 public key, which
// cannot happen for any PrivateKey produced by loadPrivateKeyFile.
func mustPublic(priv ed25519.PrivateKey) ed25519.PublicKey {
	return priv.Public().(ed25519.PublicKey)
}

var transactionCommand = &cli.Command{
	Name:  "transaction",
	Usage: "submit signed transactions and seal them into a new block",
	Subcommands: []*cli.Command{
		{
			Name:  "transfer",
			Usage: "transfer a wallet balance",
			Flags: []cli.Flag{dataDirFlag, authorityFlag, keyFileFlag, toFlag, amountFlag, nonceFlag, gasLimitFlag},
			Action: func(ctx *cli.Context) error {
				priv, err := loadPrivateKeyFile(ctx.String(keyFileFlag.Name))
				if err != nil {
					return err
				}
				sender := mustPublic(priv)
				recipient, err := loadPublicKey(ctx.String(toFlag.Name))
				if err != nil {
					return err
				}
				tx := &types.Transaction{
					Sender:    sender,
					Nonce:     ctx.Uint64(nonceFlag.Name),
					Timestamp: uint64(time.Now().Unix()),
					Recipient: types.WalletAddress(recipient),
					Payload:   types.TransferPayload(ctx.Uint64(amountFlag.Name)),
					GasLimit:  ctx.Uint64(gasLimitFlag.Name),
				}
				return signAndSubmit(ctx, tx)
			},
		},
		{
			Name:  "deploy",
			Usage: "deploy a contract",
			Flags: []cli.Flag{dataDirFlag, authorityFlag, keyFileFlag, wasmFileFlag, nonceFlag, gasLimitFlag},
			Action: func(ctx *cli.Context) error {
				priv, err := loadPrivateKeyFile(ctx.String(keyFileFlag.Name))
				if err != nil {
					return err
				}
				sender := mustPublic(priv)
				wasm, err := os.ReadFile(ctx.String(wasmFileFlag.Name))
				if err != nil {
					return fmt.Errorf("read wasm file: %w", err)
				}
				contractID := types.DeriveContractId(sender, wasm)
				tx := &types.Transaction{
					Sender:    sender,
					Nonce:     ctx.Uint64(nonceFlag.Name),
					Timestamp: uint64(time.Now().Unix()),
					Recipient: types.WalletAddress(sender),
					Payload:   types.ContractDeployPayload(wasm),
					GasLimit:  ctx.Uint64(gasLimitFlag.Name),
				}
				if err := signAndSubmit(ctx, tx); err != nil {
					return err
				}
				fmt.Println("Contract id:", contractID.String())
				return nil
			},
		},
		{
			Name:  "call",
			Usage: "call a deployed contract",
			Flags: []cli.Flag{dataDirFlag, authorityFlag, keyFileFlag, contractFlag, methodFlag, argsHexFlag, nonceFlag, gasLimitFlag},
			Action: func(ctx *cli.Context) error {
				priv, err := loadPrivateKeyFile(ctx.String(keyFileFlag.Name))
				if err != nil {
					return err
				}
				sender := mustPublic(priv)
				cidBytes, err := hex.DecodeString(ctx.String(contractFlag.Name))
				if err != nil || len(cidBytes) != 32 {
					return fmt.Errorf("invalid --%s", contractFlag.Name)
				}
				args, err := hex.DecodeString(ctx.String(argsHexFlag.Name))
				if err != nil {
					return fmt.Errorf("invalid --%s", argsHexFlag.Name)
				}
				tx := &types.Transaction{
					Sender:    sender,
					Nonce:     ctx.Uint64(nonceFlag.Name),
					Timestamp: uint64(time.Now().Unix()),
					Recipient: types.ContractAddress(types.BytesToHash(cidBytes)),
					Payload:   types.ContractCallPayload(ctx.String(methodFlag.Name), args),
					GasLimit:  ctx.Uint64(gasLimitFlag.Name),
				}
				return signAndSubmit(ctx, tx)
			},
		},
		{
			Name:  "data",
			Usage: "commit a free-form data payload",
			Flags: []cli.Flag{dataDirFlag, authorityFlag, keyFileFlag, dataHexFlag, nonceFlag},
			Action: func(ctx *cli.Context) error {
				priv, err := loadPrivateKeyFile(ctx.String(keyFileFlag.Name))
				if err != nil {
					return err
				}
				sender := mustPublic(priv)
				data, err := hex.DecodeString(ctx.String(dataHexFlag.Name))
				if err != nil {
					return fmt.Errorf("invalid --%s", dataHexFlag.Name)
				}
				tx := &types.Transaction{
					Sender:    sender,
					Nonce:     ctx.Uint64(nonceFlag.Name),
					Timestamp: uint64(time.Now().Unix()),
					Recipient: types.WalletAddress(sender),
					Payload:   types.DataPayload(data),
				}
				return signAndSubmit(ctx, tx)
			},
		},
	},
}
