// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command btcwire is a protocol exploration tool: handshake with a node,
// download and verify header chains, or relay envelopes between two nodes.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"code.hybscloud.com/btcwire"
)

const cmdName = "btcwire"

func main() {
	var configPath string

	v := viper.New()
	v.SetDefault("network", "mainnet")
	v.SetDefault("user_agent", btcwire.DefaultUserAgent)
	v.SetEnvPrefix(cmdName)
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           cmdName,
		Short:         "Bitcoin wire protocol tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				v.SetConfigFile(configPath)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config: %w", err)
				}
			}
			return bindFlags(v, cmd.Flags())
		},
	}
	rootCmd.AddCommand(
		handshakeCommand(v),
		headersCommand(v),
		relayCommand(v),
	)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().String("network", "mainnet", "network to speak on (mainnet|testnet|signet)")
	rootCmd.PersistentFlags().String("user-agent", btcwire.DefaultUserAgent, "user agent announced in the handshake")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable per-envelope debug logging")
	if err := bindFlags(v, rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		logger := newLogger(v)
		logger.Fatal().Err(err).Msgf("%s execution failed", cmdName)
	}
}

// bindFlags makes every flag readable through viper, with flags overriding
// config file values. Dashes map to underscores (user-agent -> user_agent).
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		key := flagKey(f.Name)
		if e := v.BindPFlag(key, f); e != nil && err == nil {
			err = e
		}
	})
	return err
}

func flagKey(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '-' {
			out[i] = '_'
		} else {
			out[i] = name[i]
		}
	}
	return string(out)
}

func newLogger(v *viper.Viper) zerolog.Logger {
	level := zerolog.InfoLevel
	if v.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

func networkFrom(v *viper.Viper) (btcwire.Network, error) {
	n, err := btcwire.ParseNetwork(v.GetString("network"))
	if err != nil {
		return 0, fmt.Errorf("unknown network %q", v.GetString("network"))
	}
	return n, nil
}

// withDefaultPort appends the network's conventional port when addr has none.
func withDefaultPort(addr string, network btcwire.Network) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, fmt.Sprintf("%d", network.DefaultPort()))
}

// signalContext is the base context for every subcommand: cancelled on
// SIGINT/SIGTERM so in-flight exchanges unblock via connection deadlines.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
