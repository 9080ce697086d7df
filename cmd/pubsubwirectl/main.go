// pubsubwirectl is a CLI for signing, verifying, and inspecting pubsubwire
// traffic: mint HMAC tokens, check tokens offline, decode raw wire frames,
// and run a standalone replay store.
package main

import (
	"github.com/dantte-lp/pubsubwire/cmd/pubsubwirectl/commands"
)

func main() {
	commands.Execute()
}
