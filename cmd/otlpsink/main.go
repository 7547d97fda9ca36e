// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

// Program otlpsink hosts the NDJSON persistence pipeline and its diagnostics
// endpoint. Ingestion is embedded through the pipeline API; the replay
// subcommand feeds previously persisted NDJSON files back through a pipeline.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
