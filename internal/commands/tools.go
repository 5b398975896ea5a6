// Copyright 2026 Bridgeway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arcwise/bridgeway/internal/provider"
	"github.com/arcwise/bridgeway/internal/provider/builtin"
)

func newToolsCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tools [provider]",
		Short: "List the tools a provider exposes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := flags.setup()
			if err != nil {
				return err
			}

			reg := builtin.Registry()
			names := reg.Names()
			if len(args) == 1 {
				names = args[:1]
			}

			for _, name := range names {
				pcfg := cfg.Provider(name)
				p, err := reg.New(name, &provider.Config{
					BaseURL: pcfg.BaseURL,
					Site:    pcfg.Site,
					EnvVars: pcfg.EnvVars,
				})
				if err != nil {
					return err
				}

				cmd.Printf("%s:\n", p.Name())
				for _, t := range p.Tools() {
					summary, _, _ := strings.Cut(t.Tool.Description, "\n")
					cmd.Printf("  %-28s %s\n", t.Tool.Name, summary)
				}
				cmd.Printf("  credentials: %s header, or %s\n\n",
					"x-auth-token/x-auth-data", strings.Join(p.EnvVars(), ", "))
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bridgeway %s\n", Version)
		},
	}
}
