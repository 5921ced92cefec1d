package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"launchpad/internal/infra/config"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt [value]",
	Short: "Encrypt a feed token for the config file",
	Long: `Encrypt a value with the passphrase in $LAUNCHPAD_CONFIG_KEY and print it
in the "enc:..." form accepted by gateway.tokens. The value is read from stdin
when no argument is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEncrypt,
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	passphrase := os.Getenv("LAUNCHPAD_CONFIG_KEY")
	if passphrase == "" {
		return errors.New("LAUNCHPAD_CONFIG_KEY must be set")
	}

	var value string
	if len(args) == 1 {
		value = args[0]
	} else {
		v, err := readValue(cmd.InOrStdin())
		if err != nil {
			return err
		}
		value = v
	}

	enc, err := encryptToken(value, passphrase)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), enc)
	return nil
}

func readValue(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read value: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("nothing to encrypt")
	}
	return line, nil
}

func encryptToken(value, passphrase string) (string, error) {
	enc, err := config.EncryptValue(value, passphrase)
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}
	return "enc:" + enc, nil
}
