package commands

import (
	"fmt"

	"github.com/fullstackmenu/stackdocs/internal/version"
)

// VersionCmd prints build information.
type VersionCmd struct{}

func (v *VersionCmd) Run(_ *Global, _ *CLI) error {
	fmt.Println(version.Info())
	return nil
}
