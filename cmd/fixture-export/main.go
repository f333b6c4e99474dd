// Command fixture-export writes the starter replay fixture to disk for hand
// editing.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/replay"
)

// #region main

func main() {
	outPath := flag.String("out", "fixture.json", "output fixture JSON path")
	flag.Parse()

	data, err := json.MarshalIndent(replay.SampleFixture(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal fixture: %v\n", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if err := os.WriteFile(*outPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write fixture: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *outPath)
}

// #endregion main
