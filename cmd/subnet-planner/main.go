/*
 * Copyright (C) 2023 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ipamtools/subnet-planner/pkg/config"
	"github.com/ipamtools/subnet-planner/pkg/export"
	"github.com/ipamtools/subnet-planner/pkg/ipv6"
	"github.com/ipamtools/subnet-planner/pkg/plan"
)

var (
	buildVersion       = "unknown"
	buildDate          = "unknown"
	cfgFile            string
	envPrefix          = "SUBNET-PLANNER"
	defaultCfgFileName = ".subnet-planner"
	opts               config.Options

	planFilePath string
	targetPrefix int
	note         string
	color        string
	outputPath   string
)

// rootCmd represents the root command
var rootCmd = &cobra.Command{
	Use:     "subnet-planner",
	Short:   "Partition an IPv6 block into nested, annotated subnets",
	Version: fmt.Sprintf("%s (%s)", buildVersion, buildDate),
}

// initConfig use config file and ENV variables if set.
func initConfig() {
	v := viper.New()

	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal(err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(defaultCfgFileName)
	}

	// Read environment variables that match prefix
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	// If a config file is found, read it in.
	cfgErr := v.ReadInConfig()

	bindFlags(rootCmd, v)

	initLogger()

	if cfgErr != nil {
		log.Debugf("no config file read: %v", cfgErr)
	}
}

func initLogger() {
	ll, err := log.ParseLevel(opts.LogLevel)
	if err != nil {
		ll = log.ErrorLevel
	}
	log.SetLevel(ll)
	log.SetFormatter(&log.TextFormatter{DisableColors: false, FullTimestamp: true, PadLevelText: true, DisableQuote: true})
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			_ = v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix))
		}

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(f.Name) {
			_ = cmd.PersistentFlags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func initFlags() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is $HOME/%s)", defaultCfgFileName))
	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "error", "Log level: debug, info, warning, error")
	rootCmd.PersistentFlags().StringVar(&opts.State, "state", "", "encoded plan state string")
	rootCmd.PersistentFlags().StringVar(&opts.StateFile, "state-file", "", "file holding an encoded plan state string")
	rootCmd.PersistentFlags().StringVar(&opts.Network, "network", "", fmt.Sprintf("root network for a fresh plan (default %s)", config.DefaultNetwork))
	rootCmd.PersistentFlags().IntVar(&opts.Prefix, "prefix", 0, fmt.Sprintf("root prefix for a fresh plan (default %d)", config.DefaultPrefix))

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Create a fresh plan and print its state string",
		RunE: func(_ *cobra.Command, _ []string) error {
			tree, err := config.LoadTree(&opts)
			if err != nil {
				return err
			}
			return emitState(tree)
		},
	}

	splitCmd := &cobra.Command{
		Use:   "split <cidr>",
		Short: "Split a subnet, materializing intermediate nibble levels as needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tree, err := config.LoadTree(&opts)
			if err != nil {
				return err
			}
			if err := tree.Split(args[0], targetPrefix); err != nil {
				return err
			}
			return emitState(tree)
		},
	}
	splitCmd.Flags().IntVar(&targetPrefix, "target", 0, "target prefix length (default: next nibble boundary)")

	joinCmd := &cobra.Command{
		Use:   "join <cidr>",
		Short: "Collapse a subtree back into its ancestor at --target",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tree, err := config.LoadTree(&opts)
			if err != nil {
				return err
			}
			if err := tree.Join(args[0], targetPrefix); err != nil {
				return err
			}
			return emitState(tree)
		},
	}
	joinCmd.Flags().IntVar(&targetPrefix, "target", 0, "ancestor prefix length to join into")
	_ = joinCmd.MarkFlagRequired("target")

	annotateCmd := &cobra.Command{
		Use:   "annotate <cidr>",
		Short: "Set the note and color of a subnet",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tree, err := config.LoadTree(&opts)
			if err != nil {
				return err
			}
			if err := tree.Annotate(args[0], note, color); err != nil {
				return err
			}
			return emitState(tree)
		},
	}
	annotateCmd.Flags().StringVar(&note, "note", "", "annotation text")
	annotateCmd.Flags().StringVar(&color, "color", "", "display color, e.g. #FF0000")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the plan as an indented subnet listing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, err := config.LoadTree(&opts)
			if err != nil {
				return err
			}
			showTree(cmd.OutOrStdout(), tree)
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the plan as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, err := config.LoadTree(&opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return export.WriteCSV(out, tree)
		},
	}
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")

	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Build a plan from a YAML definition file and print its state string",
		RunE: func(_ *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(planFilePath)
			if err != nil {
				return err
			}
			pf, err := plan.ParsePlanFile(raw)
			if err != nil {
				return err
			}
			tree, err := plan.Apply(pf)
			if err != nil {
				return err
			}
			return emitState(tree)
		},
	}
	applyCmd.Flags().StringVarP(&planFilePath, "file", "f", "", "plan definition file")
	_ = applyCmd.MarkFlagRequired("file")

	infoCmd := &cobra.Command{
		Use:   "info <address>",
		Short: "Print the canonical form of an address and its containment stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showInfo(cmd, args[0])
		},
	}

	rootCmd.AddCommand(newCmd, splitCmd, joinCmd, annotateCmd, showCmd, exportCmd, applyCmd, infoCmd)
}

// emitState prints the encoded state, and writes it back to the state
// file when one was given.
func emitState(tree *plan.Tree) error {
	state, err := plan.Encode(tree)
	if err != nil {
		return err
	}
	if opts.StateFile != "" {
		if err := os.WriteFile(opts.StateFile, []byte(state+"\n"), 0600); err != nil {
			return err
		}
	}
	fmt.Println(state)
	return nil
}

func showTree(w io.Writer, tree *plan.Tree) {
	tree.Walk(func(cidr string, node *plan.Node, depth int) {
		line := strings.Repeat("  ", depth) + cidr
		if node.Note != "" {
			line += "  # " + node.Note
		}
		if node.Color != "" {
			line += " [" + node.Color + "]"
		}
		fmt.Fprintln(w, line)
	})
}

func showInfo(cmd *cobra.Command, text string) error {
	addr, ok := ipv6.ParseAddress(text)
	if !ok {
		return fmt.Errorf("%w: %q", plan.ErrInvalidFormat, text)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "canonical: %s\n", addr)

	prefix := opts.Prefix
	if prefix == 0 {
		prefix = config.DefaultPrefix
	}
	network := ipv6.NewCIDR(addr, prefix)
	fmt.Fprintf(out, "network:   %s\n", network)
	fmt.Fprintf(out, "next nibble boundary: /%d\n", ipv6.NextNibbleBoundary(prefix))
	fmt.Fprintf(out, "contains %s /48s, %s /64s\n",
		ipv6.SubnetCount(prefix, 48), ipv6.SubnetCount(prefix, 64))
	return nil
}

func main() {
	// Initialize flags (command line parameters)
	initFlags()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
