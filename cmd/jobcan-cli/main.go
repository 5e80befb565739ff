package main

import (
	"jobcan-assist/cmd/jobcan-cli/commands"
	"jobcan-assist/lib/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	commands.Execute(ctx)
}
