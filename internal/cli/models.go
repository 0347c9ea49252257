package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/reviewflow/reviewflow/internal/models"
	"github.com/reviewflow/reviewflow/internal/providers"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Provider and model management",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known providers and models",
	Run: func(cmd *cobra.Command, args []string) {
		catalog := models.NewCatalog()
		for _, p := range models.All {
			fmt.Fprintf(os.Stdout, "%s (default: %s):\n", p, catalog.Default(p))
			list := catalog.Models(p)
			if p == models.Ollama {
				ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
				if local, err := providers.ListLocalModels(ctx); err == nil && len(local) > 0 {
					list = local
				}
				cancel()
			}
			for _, m := range list {
				fmt.Fprintf(os.Stdout, "  - %s\n", m)
			}
			fmt.Fprintln(os.Stdout)
		}
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
}
