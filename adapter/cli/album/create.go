package album

import (
	"fmt"

	"github.com/spf13/cobra"

	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	"github.com/felixgeelhaar/lumina/internal/albums/application/commands"
	"github.com/felixgeelhaar/lumina/internal/shared/application/pipeline"
)

var description string

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an album",
	Long: `Create a new album owned by the current user.

Examples:
  lumina album create "Summer 2026"
  lumina album create Holidays --description "Family trips"`,
	Aliases: []string{"new"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, c, err := container(cmd)
		if err != nil {
			return err
		}

		out, err := pipeline.Send[albumApp.AlbumDTO](cmd.Context(), c.Dispatcher, commands.CreateAlbumCommand{
			OwnerID:     app.CurrentUserID,
			Name:        args[0],
			Description: description,
		})
		if err != nil {
			return fmt.Errorf("failed to create album: %w", err)
		}
		if !out.IsSuccess() {
			return failure(out)
		}

		album := out.Value()
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Album created!")
		fmt.Fprintln(w, rule())
		fmt.Fprintf(w, "  ID:   %s\n", album.ID)
		fmt.Fprintf(w, "  Name: %s\n", album.Name)
		if album.Description != "" {
			fmt.Fprintf(w, "  Description: %s\n", album.Description)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&description, "description", "d", "", "album description")
}
