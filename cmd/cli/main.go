package main

import (
	"fmt"
	"os"

	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
