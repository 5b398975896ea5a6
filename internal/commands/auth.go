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
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arcwise/bridgeway/internal/authctx"
)

func newAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider credentials in the OS keyring",
	}
	cmd.AddCommand(newAuthSetCommand(), newAuthRemoveCommand())
	return cmd
}

func newAuthSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <provider>",
		Short: "Store a provider token in the OS keyring",
		Long: `Store a provider token in the OS keyring.

The token is read from stdin so it never appears in shell history or the
process table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.ErrOrStderr(), "Token for %s: ", args[0])
			reader := bufio.NewReader(cmd.InOrStdin())
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read token: %w", err)
			}
			token := strings.TrimSpace(line)
			if token == "" {
				return fmt.Errorf("empty token")
			}

			if err := authctx.StoreKeyring(args[0], token); err != nil {
				return fmt.Errorf("store credential: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Stored credential for %s\n", args[0])
			return nil
		},
	}
}

func newAuthRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <provider>",
		Aliases: []string{"remove"},
		Short:   "Remove a provider token from the OS keyring",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authctx.DeleteKeyring(args[0]); err != nil {
				return fmt.Errorf("remove credential: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Removed credential for %s\n", args[0])
			return nil
		},
	}
}
