// Package main утилита для выпуска и проверки JWT с секретом из конфига.
//
//	token -config config/local.yaml -aud <id> -claim role=admin
//	token -config config/local.yaml -verify <token>
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/magabrotheeeer/apikit/internal/config"
	"github.com/magabrotheeeer/apikit/internal/lib/jwt"
)

// claimFlags собирает повторяющиеся флаги -claim k=v.
type claimFlags map[string]any

func (c claimFlags) String() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

func (c claimFlags) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("claim %q must look like key=value", v)
	}
	c[key] = value
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "token:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("CONFIG_PATH"), "path to config file")
	aud := fs.String("aud", "", "subject id written to the aud claim")
	verify := fs.String("verify", "", "token to verify instead of signing")
	claims := claimFlags{}
	fs.Var(claims, "claim", "extra claim key=value, may be repeated")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *configPath == "" {
		return errors.New("config path is not set, use -config or CONFIG_PATH")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	maker, err := jwt.NewHMACMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	if err != nil {
		return err
	}

	if *verify != "" {
		got, err := maker.Verify(*verify)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(got)
	}

	if *aud == "" {
		return errors.New("-aud is required when signing")
	}
	token, err := maker.SignWithClaims(*aud, claims)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
