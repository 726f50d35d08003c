package launcher

import (
	"github.com/rony4d/go-lightclient/flags"
)

var app = flags.NewApp()

func init() {
	app.Commands = commands()
}

// Launch parses args and runs the selected command.
func Launch(args []string) error {
	return app.Run(args)
}
