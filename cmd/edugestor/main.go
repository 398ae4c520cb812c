package main

import "github.com/ojeffpinheiro/edu-gestor-sub005/internal/cli"

func main() {
	cli.Execute()
}
