package main

import "github.com/nekruzvatanshoev/tradeval/pkg/cmd"

func main() {
	cmd.Execute()
}
