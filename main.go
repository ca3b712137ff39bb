package main

import (
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/stevemurr/simple-user-table/cli"
)

func main() {
	cli.Execute()
}
