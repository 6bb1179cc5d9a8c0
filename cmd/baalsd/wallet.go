package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/baals/baals-go/crypto/ed25519"
	"github.com/urfave/cli/v2"
)

var outFlag = &cli.StringFlag{
	Name:  "out",
	Usage: "file to write the generated private key to",
	Value: "wallet.key",
}

var walletCommand = &cli.Command{
	Name:  "wallet",
	Usage: "manage ed25519 wallet keys",
	Subcommands: []*cli.Command{
		{
			Name:  "generate",
			Usage: "generate a new keypair and write the private key to --out",
			Flags: []cli.Flag{outFlag},
			Action: func(ctx *cli.Context) error {
				pub, priv, err := ed25519.GenerateKey(rand.Reader)
				if err != nil {
					return fmt.Errorf("generate key: %w", err)
				}
				path := ctx.String(outFlag.Name)
				if err := os.WriteFile(path, []byte(hex.EncodeToString(priv)), 0600); err != nil {
					return fmt.Errorf("write key file: %w", err)
				}
				fmt.Println("Address:", hex.EncodeToString(pub))
				fmt.Println("Key file:", path)
				return nil
			},
		},
		{
			Name:  "info",
			Usage: "print the public key for a key file",
			Flags: []cli.Flag{keyFileFlag},
			Action: func(ctx *cli.Context) error {
				path := ctx.String(keyFileFlag.Name)
				if path == "" {
					return fmt.Errorf("--%s is required", keyFileFlag.Name)
				}
				priv, err := loadPrivateKeyFile(path)
				if err != nil {
					return err
				}
				pub, ok := priv.Public().(ed25519.PublicKey)
				if !ok {
					return fmt.Errorf("could not derive public key")
				}
				fmt.Println("Address:", hex.EncodeToString(pub))
				return nil
			},
		},
	},
}
