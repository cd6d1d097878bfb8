package main

import (
	"flag"
	"fmt"
	"os"

	v1 "github.com/bggdog/sanctum-video-review/internal/api/v1"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (default: discovered)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sanctumd %s\n", version)
		os.Exit(0)
	}
	v1.Version = version

	if err := runServer(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
