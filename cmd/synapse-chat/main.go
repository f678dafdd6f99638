// Command synapse-chat is a terminal client for the Synapse AI chat backend.
package main

import "github.com/synapse-ai/synapse-chat/internal/commands"

func main() {
	commands.Execute()
}
