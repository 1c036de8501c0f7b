// Package album implements the album commands of the CLI.
package album

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/lumina/adapter/cli"
	internalApp "github.com/felixgeelhaar/lumina/internal/app"
	sharedApplication "github.com/felixgeelhaar/lumina/internal/shared/application"
)

// Cmd is the album command group
var Cmd = &cobra.Command{
	Use:   "album",
	Short: "Manage photo albums",
	Long:  `Create, list and inspect the albums of the current user (LUMINA_USER_ID).`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
}

func container(cmd *cobra.Command) (*cli.App, *internalApp.Container, error) {
	app := cli.GetApp()
	if app == nil {
		return nil, nil, fmt.Errorf("application not initialized - database connection required")
	}
	c, err := app.Container(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return app, c, nil
}

// failure turns a business failure into a command error.
func failure(resp sharedApplication.Response) error {
	return fmt.Errorf("%s", resp.Message())
}

func rule() string {
	return strings.Repeat("-", 40)
}
