package root

import (
	"github.com/parsa000721/CopTrack/apps/cli/cmd/snapshot"
	"github.com/parsa000721/CopTrack/apps/cli/cmd/stations"
	"github.com/parsa000721/CopTrack/apps/cli/cmd/token"
	"github.com/parsa000721/CopTrack/apps/cli/cmd/users"
)

func init() {
	Root().AddCommand(snapshot.Command())
	Root().AddCommand(stations.Command())
	Root().AddCommand(users.Command())
	Root().AddCommand(token.Command())
}
