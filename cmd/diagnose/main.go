// Data-path smoke check: fetch bars for one ticker and print the tail.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"ibexbot/internal/marketdata"
)

func main() {
	ticker := "SAN.MC"
	if len(os.Args) > 1 {
		ticker = os.Args[1]
	}

	client := marketdata.NewClient(30 * time.Second)
	candles, err := client.GetBars(context.Background(), ticker, 180, "1d")
	if err != nil {
		fmt.Fprintf(os.Stderr, "[X] no data for %s: %v\n", ticker, err)
		os.Exit(1)
	}

	fmt.Printf("[OK] %s: %d bars\n", ticker, len(candles))
	tail := candles
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	for _, c := range tail {
		fmt.Printf("%s  O=%.3f H=%.3f L=%.3f C=%.3f V=%d\n",
			c.Timestamp.Format("2006-01-02 15:04"), c.Open, c.High, c.Low, c.Close, c.Volume)
	}
}
