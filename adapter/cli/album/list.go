package album

import (
	"fmt"

	"github.com/spf13/cobra"

	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	"github.com/felixgeelhaar/lumina/internal/albums/application/queries"
	"github.com/felixgeelhaar/lumina/internal/shared/application/pipeline"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List albums",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, c, err := container(cmd)
		if err != nil {
			return err
		}

		out, err := pipeline.Send[[]albumApp.AlbumSummaryDTO](cmd.Context(), c.Dispatcher, queries.ListAlbumsQuery{
			OwnerID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to list albums: %w", err)
		}
		if !out.IsSuccess() {
			return failure(out)
		}

		w := cmd.OutOrStdout()
		albums := out.Value()
		if len(albums) == 0 {
			fmt.Fprintln(w, "No albums yet. Create one with: lumina album create <name>")
			return nil
		}

		fmt.Fprintf(w, "Albums (%d)\n", len(albums))
		fmt.Fprintln(w, rule())
		for _, a := range albums {
			fmt.Fprintf(w, "  %s  %-30s %3d photos  %s\n",
				a.ID, a.Name, a.PhotoCount, a.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}
