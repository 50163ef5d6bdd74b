package runner

import (
	"github.com/projectdiscovery/arpmon/pkg/version"
	"github.com/projectdiscovery/gologger"
)

const banner = `
  __ _ _ __ _ __  _ __ ___   ___  _ __
 / _' | '__| '_ \| '_ ' _ \ / _ \| '_ \
| (_| | |  | |_) | | | | | | (_) | | | |
 \__,_|_|  | .__/|_| |_| |_|\___/|_| |_|
           |_|
`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s %s\n", banner, version.GetVersion())
	gologger.Print().Msgf("\t\tprojectdiscovery.io\n\n")
}
