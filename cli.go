//go:build cli
// +build cli

package main

import (
	_ "repairshop.GO/custom"

	"repairshop.GO/cmd"
	"repairshop.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
