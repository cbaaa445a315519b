package main

import "github.com/frahmantamala/online-school/cmd"

func main() {
	cmd.Execute()
}
