package main

import "github.com/nguyentranbao-ct/merch-api/cmd"

func main() {
	cmd.Execute()
}
