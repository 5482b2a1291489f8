package main

import "github.com/derktes/ir-scrutinizer/collector/collector"

func main() {
	collector.Start()
}
