package main

import "github.com/LegacyCodeHQ/cssvars/cmd"

func main() {
	cmd.Execute()
}
