package main

import "ragagent/internal/cli"

func main() {
	cli.Execute()
}
