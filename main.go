// snaprotate drives an external archive store through a grandfather-father-son
// backup rotation: daily snapshots cascaded into monthly and yearly tiers,
// with per-tier keep-N pruning.
package main

import (
	"os"

	"snaprotate/src/cli"
)

func main() {
	os.Exit(cli.Execute())
}
