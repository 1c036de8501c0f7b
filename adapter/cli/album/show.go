package album

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	"github.com/felixgeelhaar/lumina/internal/albums/application/queries"
	"github.com/felixgeelhaar/lumina/internal/shared/application/pipeline"
)

var showCmd = &cobra.Command{
	Use:   "show <album-id>",
	Short: "Show an album and its photos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, c, err := container(cmd)
		if err != nil {
			return err
		}

		albumID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid album ID: %w", err)
		}

		out, err := pipeline.Send[albumApp.AlbumDTO](cmd.Context(), c.Dispatcher, queries.GetAlbumQuery{
			AlbumID: albumID,
			OwnerID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to load album: %w", err)
		}
		if !out.IsSuccess() {
			return failure(out)
		}

		album := out.Value()
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, album.Name)
		fmt.Fprintln(w, rule())
		if album.Description != "" {
			fmt.Fprintln(w, album.Description)
		}
		fmt.Fprintf(w, "  ID:      %s\n", album.ID)
		fmt.Fprintf(w, "  Created: %s\n", album.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(w, "  Photos:  %d\n", len(album.Photos))
		for _, p := range album.Photos {
			fmt.Fprintf(w, "    %2d. %s (%s)\n", p.Position, p.Title, p.FileName)
		}
		return nil
	},
}
