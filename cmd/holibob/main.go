package main

import "github.com/ceverett10/holibob-booking/cmd"

func main() {
	cmd.Execute()
}
