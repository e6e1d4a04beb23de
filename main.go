package main

import (
	"github.com/soapbridge/soapbridge/cmd"
	"github.com/soapbridge/soapbridge/internal/config"
)

func main() {
	config.LoadConfig()
	cmd.Execute()
}
