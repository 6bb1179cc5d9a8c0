package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/baals/baals-go/config"
	"github.com/baals/baals-go/consensus"
	"github.com/baals/baals-go/consensus/poa"
	"github.com/baals/baals-go/contractengine"
	"github.com/baals/baals-go/crypto/ed25519"
	"github.com/baals/baals-go/kv"
	"github.com/baals/baals-go/kv/leveldb"
	"github.com/baals/baals-go/kv/memorydb"
	"github.com/baals/baals-go/runtime"
	"github.com/baals/baals-go/synclayer"
	"github.com/urfave/cli/v2"
)

var (
	dataDirFlag = &cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory for the leveldb store; empty uses an in-memory store",
	}
	authorityFlag = &cli.StringFlag{
		Name:  "authority",
		Usage: "hex-encoded PoA authority public key",
	}
	keyFileFlag = &cli.StringFlag{
		Name:  "key-file",
		Usage: "path to a hex-encoded ed25519 private key",
	}
)

func openStore(dataDir string) (kv.KeyValueStore, error) {
	if dataDir == "" {
		return memorydb.New(), nil
	}
	return leveldb.New(dataDir)
}

func loadPublicKey(hexStr string) (ed25519.PublicKey, error) {
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, fmt.Errorf("invalid hex public key: %w", err)
	}
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(b))
	}
	return ed25519.PublicKey(b), nil
}

func loadPrivateKeyFile(path string) (ed25519.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	b, err := hex.DecodeString(trimNewline(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("invalid hex private key: %w", err)
	}
	switch len(b) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(b), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(b), nil
	default:
		return nil, fmt.Errorf("private key must be %d or %d bytes, got %d", ed25519.SeedSize, ed25519.PrivateKeySize, len(b))
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r' || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	return s
}

// buildRuntime opens the configured store and wires a full Runtime
// around it: PoA consensus authorized to authorityHex, optionally
// signing with the key at keyFilePath (required for block production,
// not for read-only queries).
func buildRuntime(ctx *cli.Context) (*runtime.Runtime, error) {
	authorityHex := ctx.String(authorityFlag.Name)
	if authorityHex == "" {
		return nil, fmt.Errorf("--%s is required", authorityFlag.Name)
	}
	authority, err := loadPublicKey(authorityHex)
	if err != nil {
		return nil, err
	}

	var signingKey ed25519.PrivateKey
	if keyFile := ctx.String(keyFileFlag.Name); keyFile != "" {
		signingKey, err = loadPrivateKeyFile(keyFile)
		if err != nil {
			return nil, err
		}
	}

	cfg := &config.Config{
		DataDir:              ctx.String(dataDirFlag.Name),
		AuthoritySigner:      authority,
		SigningKey:           signingKey,
		BlockIntervalSeconds: config.DefaultBlockIntervalSeconds,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	store, err := openStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	treeStore := kv.NewStore(store)

	var engine consensus.Engine = poa.New(cfg.AuthoritySigner, cfg.SigningKey, cfg.BlockIntervalSeconds)
	return runtime.New(treeStore, contractengine.NewStub(), engine, synclayer.NewNoop())
}
