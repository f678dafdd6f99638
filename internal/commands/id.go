package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/synapse-ai/synapse-chat/internal/clientid"
	"github.com/synapse-ai/synapse-chat/internal/config"
	"github.com/synapse-ai/synapse-chat/internal/storage"
)

// NewIDCmd creates the command printing the client identifier
func NewIDCmd(deps *Dependencies) *cobra.Command {
	var showPath bool

	cmd := &cobra.Command{
		Use:   "id",
		Short: "Print the client identifier",
		Long: `Print the identifier sent as user_id to the agent endpoint. It is created
and stored on first use and stays the same across runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetStoragePath()
			if err != nil {
				return err
			}

			if showPath {
				fmt.Fprintln(deps.Stdout, path)
				return nil
			}

			if _, err := config.EnsureConfigDir(); err != nil {
				return err
			}

			id, err := clientid.Resolve(storage.NewFileStorage(path), time.Now())
			if err != nil {
				if id == "" {
					return err
				}
				fmt.Fprintf(deps.Stderr, "Warning: %v\n", err)
			}

			fmt.Fprintln(deps.Stdout, id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showPath, "path", false, "Print the storage file path instead")

	return cmd
}
