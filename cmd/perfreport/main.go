// Command perfreport generates latency reports and an index page for
// load-test runs.
package main

import "github.com/devicelab-dev/perfreport/pkg/cli"

func main() {
	cli.Execute()
}
