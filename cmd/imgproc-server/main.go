package main

import (
	"context"
	"fmt"
	"os"

	"imgproc-server-go/internal/bootstrap"
)

func main() {
	fmt.Println("imgproc-server starting...")

	if err := bootstrap.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
}
