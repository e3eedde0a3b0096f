package main

import "github.com/ValentinKolb/dProps/cmd"

func main() {
	cmd.Execute()
}
