// Package cmd contains wallet app
package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/notechain/foundation/blockchain/signature"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix    = "WALLET"
	keyExtension = ".json"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Your simple note wallet",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a configuration file.")
	rootCmd.PersistentFlags().StringP("account", "a", "private", "Name of the key file holding the private key.")
	rootCmd.PersistentFlags().StringP("account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringP("url", "u", "http://localhost:8080", "Url of the node's public api.")

	bindFlag("account")
	bindFlag("account-path")
	bindFlag("url")
}

// Execute runs the wallet.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func bindFlag(name string) {
	if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile == "" {
		return nil
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return nil
}

func getPrivateKeyPath() string {
	name := viper.GetString("account")
	if !strings.HasSuffix(name, keyExtension) {
		name += keyExtension
	}

	return filepath.Join(viper.GetString("account-path"), name)
}

func loadPrivateKey() (solana.PrivateKey, error) {
	return signature.LoadKeyFile(getPrivateKeyPath())
}

func nodeURL() string {
	return strings.TrimSuffix(viper.GetString("url"), "/")
}
